package runner

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/hitsheet/packages/assertions"
	"github.com/abdul-hamid-achik/hitsheet/packages/builtin"
	"github.com/abdul-hamid-achik/hitsheet/packages/capture"
	"github.com/abdul-hamid-achik/hitsheet/packages/core/env"
	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/evidence"
	"github.com/abdul-hamid-achik/hitsheet/packages/http"
	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

const (
	DefaultBaseURL    = "http://127.0.0.1:8000"
	DefaultResultsDir = "./results"
	DefaultExecutor   = "Jun"
	// RunIDLayout formats the default run id from the local start time.
	RunIDLayout = "run-20060102-150405"
)

type Config struct {
	BaseURL    string
	ResultsDir string
	Executor   string
	RunID      string
	Timeout    time.Duration
	// NoFollowRedirects returns 3xx responses to the judge as-is.
	NoFollowRedirects bool
	MaxRedirects      int
	// Insecure skips TLS certificate verification.
	Insecure    bool
	Proxy       string
	Headers     map[string]string
	CaptureKeys []string
	Variables   map[string]any
	// Rate limits requests per second; zero means unlimited.
	Rate float64
	// WaitFor polls BaseURL before the first case until it answers or the
	// duration elapses. Zero disables the check.
	WaitFor time.Duration
	DryRun  bool
}

type Runner struct {
	client    *http.Client
	resolver  *env.Resolver
	extractor *capture.Extractor
	evidence  *evidence.Writer
	config    *Config
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces time.Now for run ids and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithFunctions replaces the template function registry.
func WithFunctions(reg *builtin.Registry) Option {
	return func(r *Runner) {
		r.resolver = env.NewResolverWithFunctions(reg)
	}
}

func NewRunner(cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = DefaultResultsDir
	}
	if cfg.Executor == "" {
		cfg.Executor = DefaultExecutor
	}

	clientOpts := []http.ClientOption{
		http.WithDefaultHeaders(cfg.Headers),
		http.WithRateLimit(cfg.Rate),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
	}
	if cfg.NoFollowRedirects {
		clientOpts = append(clientOpts, http.WithFollowRedirects(false))
	}
	if cfg.MaxRedirects > 0 {
		clientOpts = append(clientOpts, http.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.Insecure {
		clientOpts = append(clientOpts, http.WithValidateSSL(false))
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}

	r := &Runner{
		client:    http.NewClient(clientOpts...),
		resolver:  env.NewResolver(),
		extractor: capture.NewExtractor(cfg.CaptureKeys...),
		evidence:  evidence.NewWriter(cfg.ResultsDir),
		config:    cfg,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.resolver.SetVariables(env.SeedVariables(cfg.Variables))
	r.resolver.SetWarnFunc(func(format string, args ...any) {
		r.logger.Debug(fmt.Sprintf(format, args...))
	})
	return r
}

// RunID returns the configured run id, generating one from the clock when
// none was given. The generated id is kept for the lifetime of the runner.
func (r *Runner) RunID() string {
	if r.config.RunID == "" {
		r.config.RunID = r.now().Format(RunIDLayout)
	}
	return r.config.RunID
}

// Run executes every case of wb and writes the merged execution log and the
// updated report back to it. Only failures to read or write the pack are
// returned as errors.
func (r *Runner) Run(wb store.Workbook) (*RunResult, error) {
	specs, err := wb.TestCases()
	if err != nil {
		return nil, fmt.Errorf("loading test cases: %w", err)
	}
	existing, err := wb.ExecutionLog()
	if err != nil {
		return nil, fmt.Errorf("loading execution log: %w", err)
	}
	rows, err := wb.Report()
	if err != nil {
		return nil, fmt.Errorf("loading report: %w", err)
	}
	var total *int
	if n, ok, err := wb.TotalCases(); err != nil {
		return nil, fmt.Errorf("loading test case catalogue: %w", err)
	} else if ok {
		total = &n
	}

	result := &RunResult{
		RunID:      r.RunID(),
		Workbook:   wb.Path(),
		BaseURL:    r.config.BaseURL,
		Executor:   r.config.Executor,
		StartedAt:  r.now(),
		TotalCases: total,
		DryRun:     r.config.DryRun,
	}

	r.logger.Info("Starting run",
		zap.String("run_id", result.RunID),
		zap.String("base_url", result.BaseURL),
		zap.String("workbook", result.Workbook),
		zap.Int("cases", len(specs)),
		zap.Bool("dry_run", r.config.DryRun))

	if r.config.DryRun {
		result.Cases = r.Plan(specs)
		result.Report = rows
		result.Log = existing
		return result, nil
	}

	if err := evidence.EnsureDir(r.config.ResultsDir); err != nil {
		return nil, err
	}

	if r.config.WaitFor > 0 {
		if err := r.waitForService(r.config.BaseURL, r.config.WaitFor); err != nil {
			r.logger.Warn("Service not ready, running anyway", zap.Error(err))
		}
	}

	start := time.Now()
	latency := newLatencyRecorder()
	fresh := make([]ledger.Record, 0, len(specs))
	for _, spec := range specs {
		c := r.runCase(spec, result.RunID)
		latency.record(c.Duration())
		result.Cases = append(result.Cases, c)
		fresh = append(fresh, c.Record)
	}
	result.Duration = time.Since(start)
	result.Latency = latency.stats()
	r.warnOversized(wb, result.Cases)

	result.Log = ledger.Merge(existing, fresh)
	result.Summary = report.Summarize(result.Log, result.RunID)
	result.Report = report.Apply(rows, result.Summary, total)

	if err := wb.Save(result.Log, result.Report); err != nil {
		return result, fmt.Errorf("saving results: %w", err)
	}

	r.logger.Info("Run complete",
		zap.String("run_id", result.RunID),
		zap.Int("executed", result.Summary.Executed),
		zap.Int("passed", result.Summary.Passed),
		zap.Int("failed", result.Summary.Failed),
		zap.String("pass_rate", result.Summary.PassRate()),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// warnOversized reports actual results the backend will cut short. The
// evidence file keeps the full text.
func (r *Runner) warnOversized(wb store.Workbook, cases []*CaseResult) {
	lim, ok := wb.(store.CellLimiter)
	if !ok {
		return
	}
	limit := lim.MaxCellChars()
	for _, c := range cases {
		if n := utf8.RuneCountInString(c.Record.ActualResult); n > limit {
			r.logger.Warn("Actual result exceeds cell limit and will be truncated",
				zap.String("case", c.Spec.ID),
				zap.Int("chars", n),
				zap.Int("limit", limit),
				zap.String("evidence", c.EvidencePath))
		}
	}
}

// runCase takes one case from Pending to Logged.
func (r *Runner) runCase(spec testcase.Spec, runID string) *CaseResult {
	c := &CaseResult{Spec: spec, State: StatePending}

	// URL and body see the same variables: nothing is captured until after
	// the dispatch.
	c.Unresolved = r.unresolved(spec)
	c.URL = http.JoinURL(r.config.BaseURL, r.resolver.Resolve(spec.URL))
	c.Body = r.resolver.ResolveBody(spec.Body)
	for _, name := range c.Unresolved {
		r.logger.Warn("Unresolved placeholder",
			zap.String("case", spec.ID), zap.String("name", name))
	}

	c.Outcome = r.client.Dispatch(http.NewRequest(spec.Method, c.URL, c.Body))
	c.advance(StateDispatched)

	c.EvidencePath, c.EvidenceErr = r.evidence.Write(spec.Seq, spec.ID, c.Outcome.Status, c.Outcome.Text)
	if c.EvidenceErr != nil {
		r.logger.Warn("Writing evidence failed", zap.String("case", spec.ID), zap.Error(c.EvidenceErr))
		c.EvidencePath = ""
	}

	r.extract(c)

	c.Judgement = assertions.Judge(c.Outcome.Status, c.Outcome.Text, spec.Expect)
	c.advance(StateJudged)

	c.Record = ledger.Record{
		RunID:        runID,
		ExecutedAt:   ledger.Timestamp(r.now()),
		Executor:     r.config.Executor,
		TestCaseID:   spec.ID,
		ActualResult: c.Outcome.Text,
		Verdict:      string(c.Judgement.Verdict),
		EvidencePath: c.EvidencePath,
		Unresolved:   c.Unresolved,
	}
	c.advance(StateLogged)

	r.logger.Debug("Case executed",
		zap.Int("seq", spec.Seq),
		zap.String("case", spec.ID),
		zap.String("method", spec.Method),
		zap.String("url", c.URL),
		zap.String("status", c.Outcome.Status),
		zap.String("verdict", string(c.Judgement.Verdict)),
		zap.Duration("duration", c.Outcome.Duration))

	return c
}

func (r *Runner) extract(c *CaseResult) {
	switch {
	case c.Spec.SaveAs == "":
		c.SkipReason = "no saveAs"
	case c.Outcome.IsError():
		c.SkipReason = "no response"
	default:
		if value, ok := r.extractor.Extract(c.Outcome.Text); ok {
			r.resolver.SetCapture(c.Spec.SaveAs, value)
			c.Captured = value
			c.advance(StateExtracted)
			r.logger.Debug("Captured variable",
				zap.String("case", c.Spec.ID), zap.String("name", c.Spec.SaveAs), zap.Any("value", value))
			return
		}
		c.SkipReason = "no capturable key in response"
	}
	c.advance(StateExtractionSkipped)
	if c.Spec.SaveAs != "" {
		r.logger.Debug("Extraction skipped",
			zap.String("case", c.Spec.ID), zap.String("reason", c.SkipReason))
	}
}

func (r *Runner) unresolved(spec testcase.Spec) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range append(r.resolver.Unresolved(spec.URL), r.resolver.UnresolvedBody(spec.Body)...) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Plan resolves every case against the current variables without sending
// anything. Values that later cases would capture stay unresolved.
func (r *Runner) Plan(specs []testcase.Spec) []*CaseResult {
	cases := make([]*CaseResult, 0, len(specs))
	for _, spec := range specs {
		cases = append(cases, &CaseResult{
			Spec:       spec,
			State:      StatePending,
			URL:        http.JoinURL(r.config.BaseURL, r.resolver.Resolve(spec.URL)),
			Body:       r.resolver.ResolveBody(spec.Body),
			Unresolved: r.unresolved(spec),
		})
	}
	return cases
}

// Close releases the connections held by the runner's HTTP client.
func (r *Runner) Close() {
	r.client.CloseIdleConnections()
}

// Variables returns the values captured so far.
func (r *Runner) Variables() map[string]any {
	return r.resolver.Captures()
}
