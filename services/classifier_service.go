package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/smart-home-repair/repair-api/logger"
)

// Reasons carried by ClassificationUnavailableError
const (
	ReasonNoFaultDetected = "no_fault_detected"
	ReasonTimeout         = "timeout"
	ReasonUpstreamError   = "upstream_error"
	ReasonBadResponse     = "bad_response"
)

// Detection is the first result returned by the fault classifier
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier detects a fault in an image
type Classifier interface {
	// Detect sends the image to the classifier. Failures and empty results are returned as
	// *ClassificationUnavailableError.
	Detect(ctx context.Context, filename, contentType string, image []byte) (*Detection, error)
}

// HTTPClassifier calls POST {baseURL}/detect with a multipart "file" field
type HTTPClassifier struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

var classifierInstance Classifier

// NewHTTPClassifier creates a classifier client with the given request timeout
func NewHTTPClassifier(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPClassifier {
	if log == nil {
		log = logger.Nop()
	}
	return &HTTPClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With("service", "Classifier"),
	}
}

// InitClassifier sets the process classifier
func InitClassifier(c Classifier) Classifier {
	classifierInstance = c
	return classifierInstance
}

// GetClassifier returns the initialized classifier
func GetClassifier() Classifier {
	return classifierInstance
}

// detectResponse accepts both the documented {data:[...]} shape and the AI service's
// {status, fault, confidence, procedure} shape
type detectResponse struct {
	Data       []Detection `json:"data"`
	Fault      *string     `json:"fault"`
	Confidence *float64    `json:"confidence"`
}

// Detect uploads the image and returns the first detection
func (c *HTTPClassifier) Detect(ctx context.Context, filename, contentType string, image []byte) (*Detection, error) {
	body, formContentType, err := buildDetectForm(filename, contentType, image)
	if err != nil {
		return nil, &ClassificationUnavailableError{Reason: ReasonUpstreamError, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", body)
	if err != nil {
		return nil, &ClassificationUnavailableError{Reason: ReasonUpstreamError, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", formContentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		reason := ReasonUpstreamError
		if isTimeout(err) {
			reason = ReasonTimeout
		}
		c.log.Warn("Classifier call failed", "reason", reason, "error", err)
		return nil, &ClassificationUnavailableError{Reason: reason, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.Debug("failed to close classifier response", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ClassificationUnavailableError{
			Reason: ReasonUpstreamError,
			Err:    fmt.Errorf("detect endpoint returned status %d: %s", resp.StatusCode, string(msg)),
		}
	}

	var parsed detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ClassificationUnavailableError{Reason: ReasonBadResponse, Err: fmt.Errorf("failed to decode detect response: %w", err)}
	}

	detection := parsed.first()
	if detection == nil {
		c.log.Info("Classifier found no fault", "duration", time.Since(start))
		return nil, &ClassificationUnavailableError{Reason: ReasonNoFaultDetected, Err: ErrNoFaultDetected}
	}

	c.log.Info("Classifier detected fault", "label", detection.Label, "confidence", detection.Confidence, "duration", time.Since(start))
	return detection, nil
}

func (r detectResponse) first() *Detection {
	if len(r.Data) > 0 {
		d := r.Data[0]
		if strings.TrimSpace(d.Label) == "" {
			return nil
		}
		d.Confidence = clampConfidence(d.Confidence)
		return &d
	}

	if r.Fault != nil {
		label := strings.TrimSpace(*r.Fault)
		if label == "" || label == "unknown" {
			return nil
		}
		d := Detection{Label: label}
		if r.Confidence != nil {
			d.Confidence = clampConfidence(*r.Confidence)
		}
		return &d
	}
	return nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func buildDetectForm(filename, contentType string, image []byte) (io.Reader, string, error) {
	if filename == "" {
		filename = "image.jpg"
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
