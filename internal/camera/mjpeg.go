package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

// MJPEGDevice reads frames from an MJPEG-over-HTTP camera stream
// (a multipart/x-mixed-replace response where each part is one JPEG).
type MJPEGDevice struct {
	url    string
	client *http.Client

	resp   *http.Response
	reader *multipart.Reader
}

// NewMJPEGDevice creates a device for the given stream URL.
func NewMJPEGDevice(url string) *MJPEGDevice {
	return &MJPEGDevice{
		url:    url,
		client: &http.Client{}, // no timeout: the stream stays open for the session
	}
}

// Open connects to the camera stream. The connection lives for one capture
// session; the request context bounds it.
func (d *MJPEGDevice) Open(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return fmt.Errorf("creating stream request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to camera stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("camera stream returned status %d", resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		resp.Body.Close()
		return fmt.Errorf("unexpected camera content type %q", resp.Header.Get("Content-Type"))
	}
	boundary := params["boundary"]
	if boundary == "" {
		resp.Body.Close()
		return errors.New("camera stream has no multipart boundary")
	}

	d.resp = resp
	d.reader = multipart.NewReader(resp.Body, boundary)
	return nil
}

// ReadFrame returns the next JPEG part from the stream.
func (d *MJPEGDevice) ReadFrame(ctx context.Context) ([]byte, error) {
	if d.reader == nil {
		return nil, errors.New("device not open")
	}

	part, err := d.reader.NextPart()
	if err != nil {
		return nil, fmt.Errorf("reading stream part: %w", err)
	}
	defer part.Close()

	frame, err := io.ReadAll(part)
	if err != nil {
		return nil, fmt.Errorf("reading frame data: %w", err)
	}
	return frame, nil
}

// Close tears the stream connection down.
func (d *MJPEGDevice) Close() error {
	d.reader = nil
	if d.resp != nil {
		err := d.resp.Body.Close()
		d.resp = nil
		return err
	}
	return nil
}
