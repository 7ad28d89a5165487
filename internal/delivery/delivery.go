// Package delivery sends stored newsletters and tracks the delivered flag.
package delivery

import (
	"context"

	"ainewsletter/internal/digest"
	"ainewsletter/internal/logger"
	"ainewsletter/internal/mailer"
	"ainewsletter/internal/metrics"
	"ainewsletter/internal/render"
	"ainewsletter/internal/store"
)

const (
	StatusSent    = "sent"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Result records what happened to one subscriber's newsletter.
type Result struct {
	UserID string
	Status string
	Reason string
}

// Orchestrator renders and sends one newsletter per subscriber per day.
type Orchestrator struct {
	store    store.Store
	resolver *digest.PreferenceResolver
	sender   mailer.Sender
	mode     *render.Mode
}

func NewOrchestrator(s store.Store, resolver *digest.PreferenceResolver, sender mailer.Sender, mode *render.Mode) *Orchestrator {
	return &Orchestrator{store: s, resolver: resolver, sender: sender, mode: mode}
}

// Deliver sends the newsletter unless it was already delivered. The
// delivered flag is written only after the transport confirms the send, so
// a failed send leaves the document eligible for the next run.
func (o *Orchestrator) Deliver(ctx context.Context, doc *digest.NewsletterDoc) Result {
	if doc.Delivered {
		logger.Info("newsletter already delivered, skipping", "user", doc.UserID, "date", doc.Date)
		metrics.Global.IncrementEmailsSkipped()
		return Result{UserID: doc.UserID, Status: StatusSkipped, Reason: "already delivered"}
	}

	user, err := o.resolver.GetUser(ctx, doc.UserID)
	if err != nil || user.Email == "" {
		logger.Warn("subscriber has no email address, skipping", "user", doc.UserID, "error", err)
		metrics.Global.IncrementEmailsSkipped()
		return Result{UserID: doc.UserID, Status: StatusSkipped, Reason: "no email address"}
	}

	html, err := render.HTML(doc.Content, o.mode)
	if err != nil {
		logger.Error("failed to render newsletter", "user", doc.UserID, "error", err)
		metrics.Global.IncrementEmailsFailed()
		return Result{UserID: doc.UserID, Status: StatusFailed, Reason: "render failed"}
	}

	subject := render.Subject(doc.Date)
	if err := o.sender.Send(ctx, user.Email, subject, html); err != nil {
		logger.Error("failed to send newsletter", "user", doc.UserID, "error", err)
		metrics.Global.IncrementEmailsFailed()
		return Result{UserID: doc.UserID, Status: StatusFailed, Reason: "send failed"}
	}

	doc.Delivered = true
	key := doc.UserID + "_" + doc.Date
	if err := o.store.Upsert(ctx, digest.CollectionNewsletters, key, doc); err != nil {
		// The email went out; losing the flag only risks a duplicate on
		// a rerun, so record the send and move on.
		logger.Error("failed to mark newsletter delivered", "user", doc.UserID, "error", err)
	}

	metrics.Global.IncrementEmailsSent()
	logger.Info("newsletter sent", "user", doc.UserID, "to", user.Email, "articles", doc.Content.TotalArticles)
	return Result{UserID: doc.UserID, Status: StatusSent}
}
