package forecast

// FileField is the multipart field the dataset is sent under.
const FileField = "file"

// PredictRequest is the body of a prediction call. Week is sent exactly as
// typed; range and type checks belong to the service.
type PredictRequest struct {
	Week  string `json:"week"`
	Model string `json:"model,omitempty"`
}

// UploadReply is either a Rejection or a *DatasetSummary.
type UploadReply interface {
	isUploadReply()
}

// PredictReply is either a Rejection or a *PredictionSet.
type PredictReply interface {
	isPredictReply()
}

// Rejection is an application-level error reported by the service in its
// "error" field.
type Rejection struct {
	Message string
}

func (Rejection) isUploadReply()  {}
func (Rejection) isPredictReply() {}

// DatasetSummary is the success reply of an upload.
type DatasetSummary struct {
	Weeks   float64
	Message string
	Years   []int
}

func (*DatasetSummary) isUploadReply() {}

// PredictionValue is one item of the predictions list, which the service
// may send as a number or a string.
type PredictionValue struct {
	Text     string
	Number   float64
	IsNumber bool
}

// NumberValue builds a numeric prediction value.
func NumberValue(n float64) PredictionValue {
	return PredictionValue{Text: FormatNumber(n), Number: n, IsNumber: true}
}

// TextValue builds a non-numeric prediction value.
func TextValue(s string) PredictionValue {
	return PredictionValue{Text: s}
}

// PredictionSet is the success reply of a prediction. Forecasts, Accuracy and
// NextWeekDates are only filled when the service sends them.
type PredictionSet struct {
	Values        []PredictionValue
	Forecasts     map[string]float64
	Accuracy      map[string]float64
	NextWeekDates []string
}

func (*PredictionSet) isPredictReply() {}
