package notifications

import (
	"fmt"
	"log"

	"github.com/nicholas-fedor/shoutrrr"
	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/sirupsen/logrus"
)

// shoutrrrType is the identifier for the shoutrrr channel.
const shoutrrrType = "shoutrrr"

// router abstracts the shoutrrr service router for tests.
type router interface {
	Send(message string, params *shoutrrrTypes.Params) []error
}

// shoutrrrSender relays messages to any shoutrrr-supported service URL.
// The priority is folded into the title since not every service carries a
// native priority field.
type shoutrrrSender struct {
	router router
}

// newShoutrrrSender builds a service router for the given URLs.
func newShoutrrrSender(urls []string) (*shoutrrrSender, error) {
	logger := log.New(logrus.StandardLogger().WriterLevel(logrus.DebugLevel), "Shoutrrr: ", 0)

	serviceRouter, err := shoutrrr.NewSender(logger, urls...)
	if err != nil {
		return nil, fmt.Errorf("failed to create shoutrrr sender: %w", err)
	}

	return &shoutrrrSender{router: serviceRouter}, nil
}

func (s *shoutrrrSender) name() string {
	return shoutrrrType
}

// send relays one message through the router, collapsing per-URL errors into
// a single error value.
func (s *shoutrrrSender) send(title string, message string, _ int) error {
	params := &shoutrrrTypes.Params{"title": title}

	for _, err := range s.router.Send(message, params) {
		if err != nil {
			return fmt.Errorf("failed to send via shoutrrr: %w", err)
		}
	}

	return nil
}
