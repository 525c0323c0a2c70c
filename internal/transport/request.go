package transport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/agentstation/carriermap/pkg/errors"
)

// ReadBody reads at most limit bytes of a successful (2xx) response and
// closes it. Other statuses produce an *errors.APIError. A limit of 0 reads
// the whole body.
func ReadBody(source string, resp *http.Response, limit int64) ([]byte, error) {
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.APIError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Endpoint:   endpoint(resp),
		}
	}

	var r io.Reader = resp.Body
	if limit > 0 {
		r = io.LimitReader(resp.Body, limit)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, Classify(source, endpoint(resp), err)
	}
	return body, nil
}

// DecodeResponse decodes a 200 JSON response into target. Any other status
// is an *errors.APIError and an undecodable body is an *errors.ParseError.
func DecodeResponse(source string, resp *http.Response, target any) error {
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Endpoint:   endpoint(resp),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Classify(source, endpoint(resp), err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", source, err)
	}
	return nil
}

// Classify maps a transport error onto the error taxonomy: deadlines become
// *errors.TimeoutError, unknown hosts *errors.NotFoundError, and everything
// else an *errors.APIError without a status code.
func Classify(source, url string, err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return &errors.TimeoutError{
			Operation: fmt.Sprintf("%s request", source),
			Message:   err.Error(),
			Err:       err,
		}
	}

	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return errors.NewNotFoundError("host", dnsErr.Name)
	}

	return &errors.APIError{
		Source:   source,
		Message:  err.Error(),
		Endpoint: url,
		Err:      err,
	}
}

func endpoint(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return ""
}

// Unavailable wraps err so that it matches errors.ErrSourceUnavailable while
// keeping the original chain (timeouts still match errors.ErrTimeout).
// Malformed payload errors are returned unchanged.
func Unavailable(source string, err error) error {
	if err == nil || errors.IsSourceUnavailable(err) || errors.IsMalformedResponse(err) {
		return err
	}
	return errors.WrapAPI(source, 0, err)
}
