/**
 * @description
 * Client for the external fish-freshness inference service.
 * Forwards an uploaded image and returns detected fish with confidence and
 * bounding boxes. Detection labels are translated for the app's audience.
 *
 * @dependencies
 * - net/http
 * - mime/multipart
 * - backend/internal/config
 */

package freshdetect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pasarin-app/backend/internal/config"
	"github.com/pasarin-app/backend/internal/logger"
)

const requestTimeout = 30 * time.Second

// labelTranslation maps the model's class names to display names.
var labelTranslation = map[string]string{
	"karas":    "Ikan Mas Kecil",
	"karp":     "Ikan Mas Besar",
	"leszcz":   "Ikan Bream",
	"lin":      "Ikan Lin",
	"okon":     "Ikan Bass",
	"ploc":     "Ikan Roach",
	"szczupak": "Ikan Pike",
	"ukleja":   "Ikan Bleak",
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// BoundingBox is the detected region in pixel coordinates
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Detection is a single detected fish
type Detection struct {
	Class      string      `json:"class"`
	Confidence float64     `json:"confidence"`
	BBox       BoundingBox `json:"bbox"`
}

// Result is the full inference response returned to the handler
type Result struct {
	Detections      []Detection `json:"detections"`
	TotalDetections int         `json:"total_detections"`
	AnnotatedImage  string      `json:"annotated_image_base64,omitempty"`
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Services.FreshDetectURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Detect uploads the image bytes to the inference service and returns the
// translated detections.
func (c *Client) Detect(ctx context.Context, filename string, image io.Reader) (*Result, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("freshdetect url is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("freshdetect request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Error("FreshDetect API error: %d - %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("freshdetect api returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode freshdetect response: %w", err)
	}

	for i := range result.Detections {
		if translated, ok := labelTranslation[result.Detections[i].Class]; ok {
			result.Detections[i].Class = translated
		}
	}
	result.TotalDetections = len(result.Detections)

	return &result, nil
}
