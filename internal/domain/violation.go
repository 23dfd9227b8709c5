package domain

// SourceHPD tags records from the HPD violations dataset.
const SourceHPD = "HPD"

// RawViolation is one row from the violations dataset. Optional columns are
// kept as returned; precedence between alternates is applied by NormalizeViolations.
type RawViolation struct {
	ViolationID     string
	HouseNumber     string
	StreetName      string
	Borough         string
	NOVDescription  string
	ViolationStatus string
	Class           string
	ViolationClass  string
	InspectionDate  string
	NOVIssuedDate   string
	CurrentStatus   string
}

// ViolationRecord is a normalized violation.
type ViolationRecord struct {
	Source      string `json:"source"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Date        string `json:"date,omitempty"`
	Status      string `json:"status,omitempty"`
	Type        string `json:"type"`
}

// NormalizeViolations converts raw HPD rows into violation records.
//
// Field precedence (first non-empty wins):
//   - description: novdescription, violationstatus, "HPD Violation"
//   - severity:    class, violationclass, "C"
//   - date:        inspectiondate, novissueddate
//   - status:      currentstatus, violationstatus
func NormalizeViolations(rows []RawViolation) []ViolationRecord {
	out := make([]ViolationRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, ViolationRecord{
			Source:      SourceHPD,
			Description: firstNonEmpty(r.NOVDescription, r.ViolationStatus, "HPD Violation"),
			Severity:    firstNonEmpty(r.Class, r.ViolationClass, "C"),
			Date:        firstNonEmpty(r.InspectionDate, r.NOVIssuedDate),
			Status:      firstNonEmpty(r.CurrentStatus, r.ViolationStatus),
			Type:        "Housing Violation",
		})
	}
	return out
}

// ViolationCounts tallies HPD records per class.
type ViolationCounts struct {
	Total  int `json:"total"`
	ClassA int `json:"class_a"`
	ClassB int `json:"class_b"`
	ClassC int `json:"class_c"`
}

// CountViolations counts HPD records by severity class.
func CountViolations(records []ViolationRecord) ViolationCounts {
	var c ViolationCounts
	for _, v := range records {
		if v.Source != SourceHPD {
			continue
		}
		c.Total++
		switch v.Severity {
		case "A":
			c.ClassA++
		case "B":
			c.ClassB++
		case "C":
			c.ClassC++
		}
	}
	return c
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
