package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/zricethezav/gitleaks/v8/report"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/leakgate/internal/logging"
	"github.com/fyrsmithlabs/leakgate/internal/scan"
)

// maxReportBytes caps how much of a gitleaks report is read.
const maxReportBytes = 64 << 20

// readReport parses a gitleaks JSON report. A missing, oversized or
// malformed report yields no findings and a warning; the caller's exit code
// still decides the outcome.
func readReport(ctx context.Context, path string) []scan.Finding {
	log := logging.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn(ctx, "gitleaks wrote no report")
		} else {
			log.Warn(ctx, "gitleaks report unreadable", zap.Error(err))
		}
		return nil
	}
	if info.Size() > maxReportBytes {
		log.Warn(ctx, "gitleaks report too large, ignoring", zap.Int64("bytes", info.Size()))
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn(ctx, "gitleaks report unreadable", zap.Error(err))
		return nil
	}
	return parseReport(ctx, data)
}

func parseReport(ctx context.Context, data []byte) []scan.Finding {
	var raw []report.Finding
	if err := json.Unmarshal(data, &raw); err != nil {
		logging.FromContext(ctx).Warn(ctx, "gitleaks report malformed, treating as empty",
			zap.Int("bytes", len(data)), zap.Error(err))
		return nil
	}
	return convertFindings(raw, "")
}

// convertFindings maps gitleaks findings onto scan.Finding. file overrides
// the reported path when non-empty.
func convertFindings(raw []report.Finding, file string) []scan.Finding {
	if len(raw) == 0 {
		return nil
	}
	out := make([]scan.Finding, 0, len(raw))
	for _, f := range raw {
		path := f.File
		if file != "" {
			path = file
		}
		out = append(out, scan.Finding{
			RuleID:      f.RuleID,
			Description: f.Description,
			File:        path,
			StartLine:   f.StartLine,
			Secret:      f.Secret,
			Entropy:     float64(f.Entropy),
		})
	}
	return out
}
