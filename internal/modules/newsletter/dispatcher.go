package newsletter

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/solsticehq/solstice-api/internal/pkg/dispatchlog"
	"github.com/solsticehq/solstice-api/internal/pkg/mail"
	"github.com/solsticehq/solstice-api/internal/pkg/markdown"
	"go.uber.org/zap"
)

const (
	defaultBatchSize = 100
	excerptRunes     = 300
)

// DispatcherOptions configures one fan-out pipeline.
type DispatcherOptions struct {
	SiteName  string
	WebURL    string
	From      string
	BatchSize int
}

// Dispatcher sends one announcement email to every active subscriber when
// content is published. Recipients are split into fixed-size Bcc batches so
// no address is exposed to another and no single envelope grows without
// bound; the visible To line is the sending identity.
type Dispatcher struct {
	store     *Store
	transport mail.Transport
	journal   *dispatchlog.Service
	logger    *zap.Logger
	opts      DispatcherOptions
}

func NewDispatcher(store *Store, transport mail.Transport, opts DispatcherOptions) *Dispatcher {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Dispatcher{
		store:     store,
		transport: transport,
		logger:    zap.NewNop(),
		opts:      opts,
	}
}

// SetJournal attaches the dispatch audit journal. Journal writes are best
// effort and never fail a dispatch.
func (d *Dispatcher) SetJournal(j *dispatchlog.Service) { d.journal = j }

func (d *Dispatcher) SetLogger(l *zap.Logger) {
	if l != nil {
		d.logger = l
	}
}

// NotifySubscribers fans the published content out to every active
// subscriber. With zero active subscribers it short-circuits without
// touching the transport. A transport failure on any batch fails the whole
// dispatch; there is no retry and no per-recipient tracking.
func (d *Dispatcher) NotifySubscribers(ctx context.Context, content Content) DispatchResult {
	emails, err := d.store.ActiveEmails()
	if err != nil {
		d.logger.Warn("newsletter dispatch aborted", zap.Error(err))
		return DispatchResult{Success: false, Reason: "resolve recipients: " + err.Error()}
	}
	if len(emails) == 0 {
		return DispatchResult{Success: false, Reason: "no active subscribers"}
	}

	var journalID string
	if d.journal != nil {
		if rec, jerr := d.journal.Begin(ctx, content.Title, content.Slug); jerr != nil {
			d.logger.Warn("dispatch journal begin failed", zap.Error(jerr))
		} else {
			journalID = rec.ID
		}
	}

	html, err := d.renderBody(content)
	if err != nil {
		d.finishJournal(ctx, journalID, 0, 0, err)
		return DispatchResult{Success: false, Reason: "render: " + err.Error()}
	}
	subject := fmt.Sprintf("[%s] %s", d.opts.SiteName, content.Title)

	batches := chunkEmails(emails, d.opts.BatchSize)
	for i, batch := range batches {
		msg := mail.Message{
			From:    d.opts.From,
			To:      []string{d.opts.From},
			Bcc:     batch,
			Subject: subject,
			HTML:    html,
		}
		if err := d.transport.Send(msg); err != nil {
			d.logger.Warn("newsletter batch send failed",
				zap.Int("batch", i+1),
				zap.Int("batches", len(batches)),
				zap.Error(err))
			d.finishJournal(ctx, journalID, len(emails), len(batches), err)
			return DispatchResult{
				Success:    false,
				Reason:     fmt.Sprintf("send batch %d/%d: %v", i+1, len(batches), err),
				Recipients: len(emails),
				Batches:    len(batches),
			}
		}
	}

	d.logger.Info("newsletter dispatched",
		zap.String("title", content.Title),
		zap.Int("recipients", len(emails)),
		zap.Int("batches", len(batches)))
	d.finishJournal(ctx, journalID, len(emails), len(batches), nil)
	return DispatchResult{Success: true, Recipients: len(emails), Batches: len(batches)}
}

func (d *Dispatcher) renderBody(content Content) (string, error) {
	var excerptHTML template.HTML
	if strings.TrimSpace(content.Excerpt) != "" {
		rendered, err := markdown.Excerpt(content.Excerpt, excerptRunes)
		if err != nil {
			return "", err
		}
		excerptHTML = template.HTML(rendered)
	}
	return mail.RenderNewsletter(mail.NewsletterData{
		SiteName:    d.opts.SiteName,
		Title:       content.Title,
		ExcerptHTML: excerptHTML,
		ImageURL:    content.Image,
		DetailURL:   d.detailURL(content.Slug),
	})
}

func (d *Dispatcher) detailURL(slug string) string {
	base := strings.TrimRight(d.opts.WebURL, "/")
	if slug == "" {
		return base
	}
	return base + "/blog/" + slug
}

func (d *Dispatcher) finishJournal(ctx context.Context, id string, recipients, batches int, dispatchErr error) {
	if d.journal == nil || id == "" {
		return
	}
	if err := d.journal.Finish(ctx, id, recipients, batches, dispatchErr); err != nil {
		d.logger.Warn("dispatch journal finish failed", zap.Error(err))
	}
}

func chunkEmails(emails []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(emails); start += size {
		end := start + size
		if end > len(emails) {
			end = len(emails)
		}
		batches = append(batches, emails[start:end])
	}
	return batches
}
