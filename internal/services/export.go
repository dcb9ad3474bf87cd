package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Skili43/survey-tool/internal/models"
)

// ToTable renders the question/response matrix as comma-joined text.
//
// The format is deliberately not RFC 4180: header newlines become spaces,
// commas inside answers become semicolons, nothing is quoted, and there is no
// trailing newline. ToCSV is the quoting alternative.
func ToTable(qs []models.Question, responses models.ResponseSet) string {
	header := make([]string, 0, len(qs)+1)
	header = append(header, "respondent_id")
	for _, q := range qs {
		header = append(header, strings.ReplaceAll(q.Text, "\n", " "))
	}
	lines := make([]string, 0, len(responses)+1)
	lines = append(lines, strings.Join(header, ","))
	for i, row := range responses {
		fields := make([]string, 0, len(qs)+1)
		fields = append(fields, respondentLabel(i))
		for _, q := range qs {
			fields = append(fields, strings.ReplaceAll(row[q.ID], ",", ";"))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

// ToCSV renders the same matrix as standard quoted CSV.
func ToCSV(qs []models.Question, responses models.ResponseSet) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := make([]string, 0, len(qs)+1)
	header = append(header, "respondent_id")
	for _, q := range qs {
		header = append(header, q.Text)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, row := range responses {
		rec := make([]string, 0, len(qs)+1)
		rec = append(rec, respondentLabel(i))
		for _, q := range qs {
			rec = append(rec, row[q.ID])
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func respondentLabel(i int) string {
	return "R" + strconv.Itoa(i+1)
}

// SharePayload is the out-of-band share document. Field names are part of the
// exchange format.
type SharePayload struct {
	OrgName   string            `json:"orgName"`
	Objective string            `json:"objectif"`
	Anonymous bool              `json:"anonymous"`
	Questions []models.Question `json:"questions"`
}

// NewSharePayload snapshots survey; open questions carry an empty options array.
func NewSharePayload(sv models.Survey) SharePayload {
	qs := models.CloneQuestions(sv.Questions)
	for i := range qs {
		if qs[i].Options == nil {
			qs[i].Options = []string{}
		}
	}
	return SharePayload{
		OrgName:   sv.OrgName,
		Objective: sv.Objective,
		Anonymous: sv.Anonymous,
		Questions: qs,
	}
}

// ToSharePayload serializes survey as two-space indented JSON without HTML escaping.
func ToSharePayload(sv models.Survey) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewSharePayload(sv)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
