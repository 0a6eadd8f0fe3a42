package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ecosort/kiosk-server-go/internal/model"
)

const classifierTimeout = 10 * time.Second

// mockClasses stands in for the model when the real endpoint is down or
// not configured. Availability over accuracy: the kiosk flow never stalls
// on a classifier outage.
var mockClasses = []string{"plastic", "metal", "green-glass", "paper", "cardboard"}

// Classification is the outcome of classifying one captured image.
type Classification struct {
	WasteType  string  `json:"wasteType"`
	Confidence float64 `json:"confidence"`
	Fallback   bool    `json:"fallback,omitempty"`
}

// ClassifierService calls the external image classification endpoint.
type ClassifierService struct {
	client   *http.Client
	baseURL  string
	endpoint string
}

func NewClassifierService(baseURL, endpoint string) *ClassifierService {
	return &ClassifierService{
		client:   &http.Client{Timeout: classifierTimeout},
		baseURL:  baseURL,
		endpoint: endpoint,
	}
}

type classifyRequest struct {
	Image    string `json:"image"`
	Endpoint string `json:"endpoint"`
}

type classifyResponse struct {
	PredictedClass string  `json:"predicted_class"`
	Prediction     string  `json:"prediction"`
	Confidence     float64 `json:"confidence"`
}

// Classify sends the captured image upstream and maps the predicted class
// to a catalog label. Any upstream failure substitutes a random mock
// classification instead of surfacing an error.
func (s *ClassifierService) Classify(ctx context.Context, image string) Classification {
	if s.baseURL == "" {
		return s.mockClassification()
	}

	result, err := s.callUpstream(ctx, image)
	if err != nil {
		log.Warn().Err(err).Msg("classifier unavailable, using mock classification")
		return s.mockClassification()
	}
	return *result
}

func (s *ClassifierService) callUpstream(ctx context.Context, image string) (*Classification, error) {
	body, err := json.Marshal(classifyRequest{Image: image, Endpoint: s.endpoint})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	class := parsed.PredictedClass
	if class == "" {
		class = parsed.Prediction
	}
	confidence := parsed.Confidence
	if confidence == 0 {
		confidence = 0.5
	}

	label := model.LabelForClass(class)

	log.Info().
		Str("class", class).
		Str("wasteType", label).
		Float64("confidence", confidence).
		Dur("elapsed", time.Since(start)).
		Msg("image classified")

	return &Classification{WasteType: label, Confidence: confidence}, nil
}

func (s *ClassifierService) mockClassification() Classification {
	class := mockClasses[rand.Intn(len(mockClasses))]
	return Classification{
		WasteType:  model.LabelForClass(class),
		Confidence: 0.85 + rand.Float64()*0.1,
		Fallback:   true,
	}
}
