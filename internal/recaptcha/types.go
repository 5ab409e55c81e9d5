package recaptcha

// Assessment is the outcome of a token verification. OK distinguishes a
// token the service accepted from one it rejected; transport and service
// failures are returned as errors, never as an Assessment.
type Assessment struct {
	OK     bool
	Score  float64
	Reason string
}

// assessmentRequest is the Enterprise assessment call body.
type assessmentRequest struct {
	Event assessmentEvent `json:"event"`
}

type assessmentEvent struct {
	Token          string `json:"token"`
	SiteKey        string `json:"siteKey"`
	ExpectedAction string `json:"expectedAction"`
}

// assessmentResponse mirrors the slice of the Enterprise response we
// consume. Absent sections decode as nil and are treated as zero values.
type assessmentResponse struct {
	TokenProperties *struct {
		Valid  bool   `json:"valid"`
		Action string `json:"action"`
	} `json:"tokenProperties"`
	RiskAnalysis *struct {
		Score float64 `json:"score"`
	} `json:"riskAnalysis"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
