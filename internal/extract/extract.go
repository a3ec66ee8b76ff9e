// Package extract turns heterogeneous travel inputs (provider JSON payloads,
// markdown tables, spreadsheet and CSV rows) into canonical records.
//
// Extraction is best effort. A field that cannot be matched is filled with a
// typed default and the record is tagged with partial confidence; a batch never
// aborts because one row is malformed.
package extract

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/tripscore/internal/model"
)

// Result pairs an extracted record with how much of it was matched directly.
type Result[T model.Candidate] struct {
	Record     T                `json:"record"`
	Confidence model.Confidence `json:"confidence"`
	Defaulted  []string         `json:"defaulted,omitempty"`
}

// Records unwraps the canonical records from a batch of results.
func Records[T model.Candidate](results []Result[T]) []T {
	out := make([]T, len(results))
	for i, r := range results {
		out[i] = r.Record
	}
	return out
}

// Source is the input to ExtractFlights. Payload takes precedence over Table
// when both are set.
type Source struct {
	Payload []byte
	Table   TableRows
}

// ExtractFlights extracts outbound flights from a structured payload or a
// table, whichever the source carries.
func ExtractFlights(src Source) []Result[model.FlightOption] {
	if len(src.Payload) > 0 {
		return FlightsFromPayload(src.Payload)
	}
	return FlightsFromTable(src.Table)
}

// idNamespace scopes generated record ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://tripscore.dev/records"))

// recordID derives a stable id from the content a record was built from, so
// re-extracting the same input yields the same ids.
func recordID(kind model.OptionKind, parts ...string) string {
	name := string(kind) + "|" + strings.Join(parts, "|")
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

// tracker collects the names of defaulted fields for one record.
type tracker struct {
	kind   model.OptionKind
	fields []string
}

func (t *tracker) mark(field string) {
	t.fields = append(t.fields, field)
}

func (t *tracker) confidence() model.Confidence {
	if len(t.fields) > 0 {
		zap.L().Debug("extract: defaulted fields",
			zap.String("kind", string(t.kind)),
			zap.Strings("fields", t.fields),
		)
		return model.ConfidencePartial
	}
	return model.ConfidenceFull
}
