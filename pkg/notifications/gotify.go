package notifications

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// gotifyType is the identifier for the gotify channel.
const gotifyType = "gotify"

// errGotifyStatus indicates the gotify server answered with a non-2xx status.
var errGotifyStatus = errors.New("gotify server rejected the message")

// gotifySender posts messages to a gotify server as a multipart form with
// title, message, and priority fields.
type gotifySender struct {
	serverURL  string
	token      string
	httpClient *http.Client
}

// newGotifySender returns a sender for the given gotify server and
// application token.
func newGotifySender(serverURL string, token string) *gotifySender {
	return &gotifySender{
		serverURL:  serverURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *gotifySender) name() string {
	return gotifyType
}

// send posts one message. The token travels as a query parameter and the
// payload as multipart form fields, matching the gotify message API.
func (g *gotifySender) send(title string, message string, priority int) error {
	var body bytes.Buffer

	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("title", title)
	_ = writer.WriteField("message", message)
	_ = writer.WriteField("priority", strconv.Itoa(priority))

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to encode message form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/message?token=%s", g.serverURL, url.QueryEscape(g.token))

	resp, err := g.httpClient.Post(endpoint, writer.FormDataContentType(), &body)
	if err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %s", errGotifyStatus, resp.Status)
	}

	return nil
}
