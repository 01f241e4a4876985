package vertexclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/recycleme/backend/internal/dto"
)

const maxPredictions = 10

// Adapter calls deployed object-detection model endpoints on Vertex AI.
// One long-lived instance serves all requests; the endpoint resource name
// is chosen per call so the primary and battery-tuned models share a client.
type Adapter struct {
	client *aiplatform.PredictionClient
	log    *slog.Logger
}

func NewAdapter(ctx context.Context, log *slog.Logger, region string) (*Adapter, error) {
	client, err := aiplatform.NewPredictionClient(ctx,
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", region)))
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client: client,
		log:    log,
	}, nil
}

func (a *Adapter) Close() error {
	err := a.client.Close()
	if err != nil && a.log != nil {
		a.log.Error("vertex adapter close failed", "error", err)
	}
	return err
}

// Infer sends one image to the given endpoint and returns raw detections
// at or above the confidence threshold.
func (a *Adapter) Infer(ctx context.Context, endpoint string, image []byte, confidenceThreshold float64) ([]dto.RawDetection, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("vertex endpoint is required")
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("vertex infer request has no image content")
	}

	instance, err := structpb.NewValue(map[string]any{
		"content": base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, err
	}
	params, err := structpb.NewValue(map[string]any{
		"confidenceThreshold": confidenceThreshold,
		"maxPredictions":      maxPredictions,
	})
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:   endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	})
	if err != nil {
		return nil, err
	}

	return parsePredictions(resp.GetPredictions()), nil
}

// parsePredictions flattens the image-object-detection prediction schema:
// parallel displayNames / confidences / bboxes arrays, one set per instance,
// with each bbox as [xMin, xMax, yMin, yMax].
func parsePredictions(predictions []*structpb.Value) []dto.RawDetection {
	var out []dto.RawDetection

	for _, p := range predictions {
		fields := p.GetStructValue().GetFields()
		names := fields["displayNames"].GetListValue().GetValues()
		confs := fields["confidences"].GetListValue().GetValues()
		boxes := fields["bboxes"].GetListValue().GetValues()

		for i, name := range names {
			d := dto.RawDetection{Label: name.GetStringValue()}
			if i < len(confs) {
				d.Confidence = confs[i].GetNumberValue()
			}
			if i < len(boxes) {
				if b := boxes[i].GetListValue().GetValues(); len(b) == 4 {
					d.X1 = b[0].GetNumberValue()
					d.X2 = b[1].GetNumberValue()
					d.Y1 = b[2].GetNumberValue()
					d.Y2 = b[3].GetNumberValue()
				}
			}
			out = append(out, d)
		}
	}

	return out
}
