package scanner

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/scan-io-git/qgate/internal/config"
	"github.com/scan-io-git/qgate/internal/findings"
	"github.com/scan-io-git/qgate/internal/model"
	"github.com/scan-io-git/qgate/internal/parser"
	"github.com/scan-io-git/qgate/internal/report"
	"github.com/scan-io-git/qgate/internal/rules"
	"github.com/scan-io-git/qgate/pkg/shared/errors"
	"github.com/scan-io-git/qgate/pkg/shared/files"
)

// Scanner drives artifacts through parsing, rule evaluation and reporting.
type Scanner struct {
	registry       *parser.Registry // Parsers by file extension
	engine         *rules.Engine    // Selected rules with severity overrides
	analysis       *config.Analysis // Read-only configuration handed to every rule
	concurrentJobs int              // Number of artifacts analysed in parallel
	logger         hclog.Logger     // Logger for logging messages and errors
}

// New creates a new Scanner instance with the provided configuration.
func New(registry *parser.Registry, engine *rules.Engine, analysis *config.Analysis, concurrentJobs int, logger hclog.Logger) *Scanner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if concurrentJobs < 1 {
		concurrentJobs = 1
	}
	return &Scanner{
		registry:       registry,
		engine:         engine,
		analysis:       analysis,
		concurrentJobs: concurrentJobs,
		logger:         logger,
	}
}

// AnalyzeSource runs the whole pipeline over text already in memory. The
// artifact id selects the parser by extension and names the report.
// Malformed input becomes a "parse" issue over an empty model; only an
// artifact without a parser or a cancelled context returns an error.
func (s *Scanner) AnalyzeSource(ctx context.Context, artifact string, src []byte) (*report.Report, error) {
	p, ok := s.registry.ForPath(artifact)
	if !ok {
		return nil, errors.NewInputError(artifact, fmt.Errorf("no analyzer for this file type"))
	}

	lines := model.SplitLines(src)
	c := findings.NewCollector()

	m, err := p.Parse(ctx, src)
	if err != nil {
		var failure *errors.ParseFailure
		if !stderrors.As(err, &failure) {
			return nil, fmt.Errorf("failed to parse %q: %w", artifact, err)
		}
		s.logger.Debug("artifact could not be parsed", "artifact", artifact, "line", failure.Line, "reason", failure.Message)
		c.Add(findings.New(rules.ParseIssueID, findings.SeverityError, failure.Line, "%s", failure.Message))
		m = model.Empty(p.Class(), len(lines))
	}

	s.engine.Run(&rules.Input{Model: m, Lines: lines, Config: s.analysis}, c)

	r := report.New(artifact, m, c)
	s.logger.Debug("artifact analysed", "artifact", artifact, "parser", p.Name(), "issues", len(r.Issues), "verdict", r.Verdict)
	return r, nil
}

// AnalyzeFile reads one artifact from disk and analyses it. Read failures are
// returned as *errors.InputError.
func (s *Scanner) AnalyzeFile(ctx context.Context, path string) (*report.Report, error) {
	if _, ok := s.registry.ForPath(path); !ok {
		return nil, errors.NewInputError(path, fmt.Errorf("no analyzer for this file type"))
	}

	src, err := readArtifact(path)
	if err != nil {
		return nil, errors.NewInputError(path, err)
	}
	return s.AnalyzeSource(ctx, path, src)
}

func readArtifact(path string) ([]byte, error) {
	if err := files.ValidatePath(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// ScanFiles analyses every path with bounded parallelism. Input errors are
// recorded as skipped artifacts; the batch is ordered by artifact id, so the
// completion order of workers never shows in the result.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) (*report.BatchReport, error) {
	logger := s.logger.With("run_id", uuid.New().String())
	logger.Info("scan starting", "total", len(paths), "goroutines", s.concurrentJobs)

	reports := make([]*report.Report, len(paths))
	skipped := make([]*report.Skipped, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrentJobs)
	for i, path := range paths {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := s.AnalyzeFile(gCtx, path)
			var inputErr *errors.InputError
			switch {
			case stderrors.As(err, &inputErr):
				logger.Warn("artifact skipped", "artifact", path, "reason", inputErr.Err)
				skipped[i] = &report.Skipped{Artifact: path, Reason: inputErr.Err.Error()}
				return nil
			case err != nil:
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var done []*report.Report
	for _, r := range reports {
		if r != nil {
			done = append(done, r)
		}
	}
	var missed []report.Skipped
	for _, sk := range skipped {
		if sk != nil {
			missed = append(missed, *sk)
		}
	}

	batch := report.NewBatch(done, missed)
	logger.Info("scan finished", "artifacts", batch.Totals.Artifacts, "skipped", len(batch.Skipped), "verdict", batch.Totals.Verdict)
	return batch, nil
}
