package models

import "time"

// SubmissionPayload is the JSON object posted to the spreadsheet automation
// endpoint. Timestamps use the DD.MM.YYYY/HH:MM sheet format and durations
// are always computed before transmission.
type SubmissionPayload struct {
	SrNo         int      `json:"sr_no" bson:"sr_no"`
	TabName      string   `json:"tab_name" bson:"tab_name"`
	RakeNo       string   `json:"rake_no" bson:"rake_no"`
	Source       string   `json:"source" bson:"source"`
	WagonSpec    string   `json:"wagon_spec" bson:"wagon_spec"`
	WagonType    string   `json:"wagon_type" bson:"wagon_type"`
	Receipt      string   `json:"receipt" bson:"receipt"`
	Placement    string   `json:"placement" bson:"placement"`
	UnloadingEnd string   `json:"unloading_end" bson:"unloading_end"`
	Release      string   `json:"release" bson:"release"`
	UDuration    string   `json:"u_duration" bson:"u_duration"`
	RDuration    string   `json:"r_duration" bson:"r_duration"`
	Demurrage    int      `json:"demurrage" bson:"demurrage"`
	NTH          string   `json:"nth" bson:"nth"`
	MUTH         string   `json:"muth" bson:"muth"`
	WT1          string   `json:"wt1" bson:"wt1"`
	WT2          string   `json:"wt2" bson:"wt2"`
	WT3          string   `json:"wt3" bson:"wt3"`
	WT4          string   `json:"wt4" bson:"wt4"`
	GCV          *int     `json:"gcv,omitempty" bson:"gcv,omitempty"`
	VM           *float64 `json:"vm,omitempty" bson:"vm,omitempty"`
	RemMM        string   `json:"rem_mm" bson:"rem_mm"`
	RemEMD       string   `json:"rem_emd" bson:"rem_emd"`
	RemCNI       string   `json:"rem_cni" bson:"rem_cni"`
	RemOPR       string   `json:"rem_opr" bson:"rem_opr"`
	RemMGR       string   `json:"rem_mgr" bson:"rem_mgr"`
	RemCHEM      string   `json:"rem_chem" bson:"rem_chem"`
	RemOther     string   `json:"rem_other" bson:"rem_other"`
}

// SubmissionStatus is the outcome recorded for an attempt.
type SubmissionStatus string

const (
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
	SubmissionFailed   SubmissionStatus = "failed"
)

// SubmissionLog is the audit trail entry for one submission attempt.
type SubmissionLog struct {
	RakeNo    string             `bson:"rake_no" json:"rake_no"`
	Status    SubmissionStatus   `bson:"status" json:"status"`
	Subject   string             `bson:"subject" json:"subject"`
	Role      string             `bson:"role" json:"role"`
	Errors    []string           `bson:"errors,omitempty" json:"errors,omitempty"`
	Payload   *SubmissionPayload `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// SubmissionResult is returned to the caller after a successful submission.
type SubmissionResult struct {
	Payload    SubmissionPayload  `json:"payload"`
	Evaluation EvaluationResponse `json:"evaluation"`
}
