package planner

// Adherence measures how many scholars are inside their cadence.
type Adherence struct {
	Total          int     `json:"total" yaml:"total"`
	Compliant      int     `json:"compliant" yaml:"compliant"`
	Overdue        int     `json:"overdue" yaml:"overdue"`
	NoTouch        int     `json:"no_touch" yaml:"no_touch"`
	ComplianceRate float64 `json:"compliance_rate" yaml:"compliance_rate"`
}

func (a *Adherence) add(status Status) {
	a.Total++
	switch status {
	case StatusOnTrack, StatusDueSoon:
		a.Compliant++
	case StatusOverdue:
		a.Overdue++
	case StatusNoTouch:
		a.NoTouch++
	}
}

func (a *Adherence) finish() {
	if a.Total == 0 {
		a.ComplianceRate = 0
		return
	}
	a.ComplianceRate = float64(a.Compliant) / float64(a.Total)
}

// CadenceAdherence is adherence per tier plus the pooled overall figure.
type CadenceAdherence struct {
	Overall Adherence `json:"overall" yaml:"overall"`
	High    Adherence `json:"high" yaml:"high"`
	Medium  Adherence `json:"medium" yaml:"medium"`
	Low     Adherence `json:"low" yaml:"low"`
}

// SummarizeCadenceAdherence counts on-track and due-soon scholars as compliant.
// The overall rate is pooled across tiers, not an average of tier rates.
func SummarizeCadenceAdherence(scored []ScoredScholar) CadenceAdherence {
	var result CadenceAdherence
	for _, record := range scored {
		result.Overall.add(record.Status)
		switch tierForCadence(record.CadenceDays) {
		case TierHigh:
			result.High.add(record.Status)
		case TierMedium:
			result.Medium.add(record.Status)
		default:
			result.Low.add(record.Status)
		}
	}
	result.Overall.finish()
	result.High.finish()
	result.Medium.finish()
	result.Low.finish()
	return result
}
