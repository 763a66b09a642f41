package models

import (
	"github.com/mamadbah2/rakelog/internal/domain/rake"
)

// RakeEntryRequest is the immutable command an operator submits for one rake.
type RakeEntryRequest struct {
	SrNo      int      `json:"sr_no" binding:"omitempty,gte=1"`
	RakeNo    string   `json:"rake_no"`
	Source    string   `json:"source"`
	WagonSpec string   `json:"wagon_spec"`
	GCV       *int     `json:"gcv,omitempty" binding:"omitempty,gte=0"`
	VM        *float64 `json:"vm,omitempty" binding:"omitempty,gte=0,lte=100"`

	Receipt      rake.DateTime `json:"receipt"`
	Placement    rake.DateTime `json:"placement"`
	UnloadingEnd rake.DateTime `json:"unloading_end"`
	Release      rake.DateTime `json:"release"`

	// Wagon handling fields hold "<count> / (HH:MM - HH:MM)".
	WT1  string `json:"wt1"`
	WT2  string `json:"wt2"`
	WT3  string `json:"wt3"`
	WT4  string `json:"wt4"`
	NTH  string `json:"nth"`
	MUTH string `json:"muth"`

	// Departmental outage logs, one "HH:MM - HH:MM reason" per line.
	RemMM    string `json:"rem_mm"`
	RemEMD   string `json:"rem_emd"`
	RemCNI   string `json:"rem_cni"`
	RemOPR   string `json:"rem_opr"`
	RemMGR   string `json:"rem_mgr"`
	RemCHEM  string `json:"rem_chem"`
	RemOther string `json:"rem_other"`
}

// EntryInput maps the request onto the validator input.
func (r RakeEntryRequest) EntryInput() rake.EntryInput {
	return rake.EntryInput{
		RakeNo:    r.RakeNo,
		Source:    r.Source,
		WagonSpec: r.WagonSpec,
		Timeline: rake.TimelineInput{
			Receipt:      r.Receipt,
			Placement:    r.Placement,
			UnloadingEnd: r.UnloadingEnd,
			Release:      r.Release,
		},
		Tipplers: map[string]string{
			"wt1":  r.WT1,
			"wt2":  r.WT2,
			"wt3":  r.WT3,
			"wt4":  r.WT4,
			"nth":  r.NTH,
			"muth": r.MUTH,
		},
		Remarks: r.remarks(),
	}
}

func (r RakeEntryRequest) remarks() map[string]string {
	return map[string]string{
		"rem_mm":    r.RemMM,
		"rem_emd":   r.RemEMD,
		"rem_cni":   r.RemCNI,
		"rem_opr":   r.RemOPR,
		"rem_mgr":   r.RemMGR,
		"rem_chem":  r.RemCHEM,
		"rem_other": r.RemOther,
	}
}

// EvaluationResponse is returned by the dry-run and submit endpoints.
type EvaluationResponse struct {
	Valid             bool                          `json:"valid"`
	UnloadingDuration string                        `json:"u_duration"`
	ReleaseDuration   string                        `json:"r_duration"`
	DemurrageHours    int                           `json:"demurrage"`
	TabName           string                        `json:"tab_name,omitempty"`
	Windows           map[string]rake.TipplerWindow `json:"windows,omitempty"`
	Errors            rake.ValidationErrors         `json:"errors,omitempty"`
}
