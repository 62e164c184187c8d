package ports

import (
	"context"
	"io"

	"callcast/domain/forecast"
)

// SelectedFile is a file the user picked for upload. Open is called when the
// request body is built, so read failures surface as call failures.
type SelectedFile interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// ForecastService is the remote forecasting service.
// A returned error means the call itself failed (transport or decode); a
// Rejection reply means the service answered with an error message.
type ForecastService interface {
	Upload(ctx context.Context, file SelectedFile) (forecast.UploadReply, error)
	Predict(ctx context.Context, req forecast.PredictRequest) (forecast.PredictReply, error)
}

// PredictionSink receives every successful prediction set after it has been rendered.
type PredictionSink interface {
	RecordPredictions(ctx context.Context, week string, set *forecast.PredictionSet) error
}
