package device

import (
	"context"
	"time"

	"github.com/nmxmxh/xrscene/kernel/utils"
)

// Profile is the outcome of one detection session
type Profile struct {
	ProbeResult
	SessionID   string
	Category    Category
	Tier        Tier
	MatchedRule string
	DetectedAt  time.Time
}

// IsVR reports whether the device belongs to the VR family
func (p *Profile) IsVR() bool {
	return p != nil && p.Category.IsVR()
}

// IsMobile reports whether the device is a phone or tablet
func (p *Profile) IsMobile() bool {
	return p != nil && p.Category.IsHandheld()
}

// IsDesktop reports whether the device classified as desktop
func (p *Profile) IsDesktop() bool {
	return p != nil && p.Category == CategoryDesktop
}

// Emoji returns the category icon, or ❓ before detection
func (p *Profile) Emoji() string {
	if p == nil {
		return CategoryUnknown.Emoji()
	}
	return p.Category.Emoji()
}

// Detector runs probe -> classify -> rate
type Detector struct {
	prober     *Prober
	classifier *Classifier
	rater      *Rater
	logger     *utils.Logger
	now        func() time.Time
}

// DetectorOption customises a Detector
type DetectorOption func(*Detector)

// WithClassifier replaces the default classification rules
func WithClassifier(c *Classifier) DetectorOption {
	return func(d *Detector) {
		if c != nil {
			d.classifier = c
		}
	}
}

// WithRater replaces the default performance rater
func WithRater(r *Rater) DetectorOption {
	return func(d *Detector) {
		if r != nil {
			d.rater = r
		}
	}
}

// NewDetector creates a detector with the default rules
func NewDetector(logger *utils.Logger, opts ...DetectorOption) *Detector {
	logger = utils.OrGlobal(logger).Named("device")
	d := &Detector{
		prober:     NewProber(logger),
		classifier: NewClassifier(),
		rater:      NewRater(),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect probes env and derives the category and tier. It waits for the XR
// queries to settle; nothing downstream can start before it returns.
func (d *Detector) Detect(ctx context.Context, env Environment) *Profile {
	started := d.now()
	d.logger.Info("Detecting device...")

	result := d.prober.Probe(ctx, env)
	d.logger.Debug("Analyzing user agent", utils.String("ua", result.Record.UserAgent))

	category, rule := d.classifier.Explain(result.Record)
	tier := d.rater.Rate(category, result.Record)

	profile := &Profile{
		ProbeResult: result,
		SessionID:   utils.GenerateID(),
		Category:    category,
		Tier:        tier,
		MatchedRule: rule,
		DetectedAt:  d.now(),
	}

	d.logger.Info("Device detected",
		utils.String("session", profile.SessionID),
		utils.Stringer("category", category),
		utils.String("rule", rule),
		utils.Stringer("tier", tier),
		utils.String("screen", string(result.Record.ScreenSize)),
		utils.Bool("touch", result.Record.IsTouchDevice),
		utils.Bool("vr", result.Record.HasVRSession),
		utils.Bool("ar", result.Record.HasARSession),
		utils.String("gpu", result.Record.GPU),
		utils.Duration("took", profile.DetectedAt.Sub(started)),
	)

	return profile
}
