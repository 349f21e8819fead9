// Package classify provides a deterministic heuristic document-type
// classifier behind the DocumentClassifier port. It scores filename tokens
// and a shallow content probe; a trained model can replace it without
// touching the pipeline.
package classify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/prasadk/docintake/internal/core/domain"
)

// probeLimit bounds how much of the file is sniffed for textual markers.
const probeLimit = 4096

type signal struct {
	token  string
	weight float64
}

var filenameSignals = map[domain.DocumentType][]signal{
	domain.TypeAadhaar:        {{"aadhaar", 0.85}, {"aadhar", 0.85}, {"uidai", 0.7}},
	domain.TypeAadhaarFront:   {{"aadhaar_front", 0.9}, {"aadhar_front", 0.9}},
	domain.TypeAadhaarBack:    {{"aadhaar_back", 0.9}, {"aadhar_back", 0.9}},
	domain.TypePAN:            {{"pan", 0.8}},
	domain.TypePassport:       {{"passport", 0.85}},
	domain.TypeVoterID:        {{"voter", 0.85}, {"epic", 0.6}},
	domain.TypeDrivingLicense: {{"driving", 0.8}, {"licence", 0.7}, {"license", 0.7}, {"dl_", 0.6}},
}

var contentSignals = map[domain.DocumentType][]signal{
	domain.TypeAadhaar:        {{"unique identification", 0.85}, {"uidai", 0.8}, {"aadhaar", 0.85}},
	domain.TypePAN:            {{"income tax", 0.85}, {"permanent account number", 0.9}},
	domain.TypePassport:       {{"republic of india", 0.6}, {"passport", 0.85}},
	domain.TypeVoterID:        {{"election commission", 0.9}, {"elector", 0.8}},
	domain.TypeDrivingLicense: {{"driving licence", 0.9}, {"motor vehicle", 0.7}, {"transport", 0.5}},
}

type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

// Classify is a pure function of the file name and the file's leading bytes,
// so classifying the same file twice yields identical results.
func (h *Heuristic) Classify(ctx context.Context, filePath, fileName string) (domain.Classification, error) {
	if err := ctx.Err(); err != nil {
		return domain.Classification{}, err
	}

	scores := make(map[domain.DocumentType]float64)
	var notes []string

	lowerName := strings.ToLower(fileName)
	for _, docType := range typeOrder {
		for _, s := range filenameSignals[docType] {
			if strings.Contains(lowerName, s.token) {
				if s.weight > scores[docType] {
					scores[docType] = s.weight
				}
				notes = append(notes, fmt.Sprintf("filename token %q", s.token))
			}
		}
	}

	probe, err := readProbe(filePath)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("probe file: %w", err)
	}
	if utf8.Valid(probe) {
		lowerContent := strings.ToLower(string(probe))
		for _, docType := range typeOrder {
			for _, s := range contentSignals[docType] {
				if strings.Contains(lowerContent, s.token) {
					if s.weight > scores[docType] {
						scores[docType] = s.weight
					}
					notes = append(notes, fmt.Sprintf("content token %q", s.token))
				}
			}
		}
	}

	best := domain.TypeOther
	bestScore := 0.0
	// Deterministic tie-break: iterate a fixed type order, not map order.
	for _, docType := range typeOrder {
		if score, ok := scores[docType]; ok && score > bestScore {
			best = docType
			bestScore = score
		}
	}

	return domain.Classification{
		PredictedType: best,
		Confidence:    bestScore,
		Scores:        scores,
		Notes:         strings.Join(dedupe(notes), "; "),
	}, nil
}

var typeOrder = []domain.DocumentType{
	domain.TypeAadhaarFront,
	domain.TypeAadhaarBack,
	domain.TypeAadhaar,
	domain.TypePAN,
	domain.TypePassport,
	domain.TypeVoterID,
	domain.TypeDrivingLicense,
}

func readProbe(filePath string) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	probe, err := io.ReadAll(io.LimitReader(f, probeLimit))
	if err != nil {
		return nil, err
	}
	return probe, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
