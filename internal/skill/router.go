package skill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"gstskill/internal/model"
	"gstskill/pkg/rates"
)

const (
	IntentAbout  = "AboutIntent"
	IntentFact   = "FactIntent"
	IntentRate   = "RateIntent"
	IntentNews   = "NewsIntent"
	IntentYes    = "AMAZON.YesIntent"
	IntentNo     = "AMAZON.NoIntent"
	IntentStop   = "AMAZON.StopIntent"
	IntentCancel = "AMAZON.CancelIntent"
	IntentHelp   = "AMAZON.HelpIntent"

	SlotItem = "Item"

	launchCardTitle = "gst"
)

// NavigationIntents are built-ins the skill accepts but does nothing for.
var NavigationIntents = []string{
	"AMAZON.PreviousIntent",
	"AMAZON.StartOverIntent",
	"AMAZON.NextIntent",
	"AMAZON.PauseIntent",
	"AMAZON.ResumeIntent",
	"AMAZON.RepeatIntent",
	"AMAZON.ScrollUpIntent",
	"AMAZON.ScrollDownIntent",
	"AMAZON.ScrollLeftIntent",
	"AMAZON.ScrollRightIntent",
	"AMAZON.PageUpIntent",
	"AMAZON.PageDownIntent",
	"AMAZON.MoreIntent",
	"AMAZON.NavigateHomeIntent",
	"AMAZON.NavigateSettingsIntent",
	"AMAZON.FallbackIntent",
}

type RateLookup interface {
	Lookup(ctx context.Context, item string) (string, error)
}

type HeadlineFetcher interface {
	Headline(ctx context.Context) (string, error)
}

type handlerFunc func(ctx context.Context, req model.IntentRequest) model.Response

type Router struct {
	rates     RateLookup
	news      HeadlineFetcher
	templates *Templates
	intn      func(n int) int
	intents   map[string]handlerFunc
}

// NewRouter wires the dispatch table. intn picks the fact index and defaults
// to math/rand.Intn.
func NewRouter(rates RateLookup, news HeadlineFetcher, templates *Templates, intn func(n int) int) *Router {
	if intn == nil {
		intn = rand.Intn
	}

	r := &Router{
		rates:     rates,
		news:      news,
		templates: templates,
		intn:      intn,
	}

	r.intents = map[string]handlerFunc{
		IntentAbout:  r.handleAbout,
		IntentFact:   r.handleFact,
		IntentRate:   r.handleRate,
		IntentNews:   r.handleNews,
		IntentYes:    r.handleNews,
		IntentNo:     r.farewell("no_bye"),
		IntentStop:   r.farewell("stop_bye"),
		IntentCancel: r.farewell("cancel_bye"),
		IntentHelp:   r.handleHelp,
	}
	for _, name := range NavigationIntents {
		r.intents[name] = handleNoop
	}

	return r
}

func (r *Router) Route(ctx context.Context, req model.IntentRequest) (res model.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("intent handler panicked", "intent", req.Name, "request_id", req.RequestID, "panic", fmt.Sprint(rec))
			res = r.errorPrompt()
		}
	}()

	switch req.Kind {
	case model.RequestLaunch:
		return r.handleLaunch()
	case model.RequestSessionEnded:
		return statement("")
	}

	handle, ok := r.intents[req.Name]
	if !ok {
		slog.Warn("unmapped intent", "intent", req.Name, "request_id", req.RequestID)
		return model.Response{NoContent: true}
	}

	return handle(ctx, req)
}

func (r *Router) handleLaunch() model.Response {
	return model.Response{
		Speech:   r.templates.Render("welcome", nil),
		Reprompt: r.templates.Render("welcome_re", nil),
		Card: &model.Card{
			Kind:  model.CardStandard,
			Title: launchCardTitle,
			Body:  r.templates.Render("welcome_card", nil),
		},
		ExpectsFurtherInput: true,
	}
}

func (r *Router) handleAbout(ctx context.Context, req model.IntentRequest) model.Response {
	return r.cardStatement(r.templates.Render("about", nil))
}

func (r *Router) handleFact(ctx context.Context, req model.IntentRequest) model.Response {
	return r.cardStatement(r.templates.Render(factName(r.intn(NumFacts)), nil))
}

func (r *Router) handleRate(ctx context.Context, req model.IntentRequest) model.Response {
	item := strings.TrimSpace(req.Slot(SlotItem))

	rate, err := r.rates.Lookup(ctx, item)
	if errors.Is(err, rates.ErrNotFound) {
		slog.Info("unknown gst item", "item", item, "request_id", req.RequestID)
		return r.unknownItemReprompt()
	}
	if err != nil {
		slog.Error("error looking up gst rate", "item", item, "request_id", req.RequestID, "error", err)
		return r.errorPrompt()
	}

	return r.cardStatement(r.templates.Render("gst_rate", map[string]string{
		"Item": item,
		"Rate": rate,
	}))
}

func (r *Router) handleNews(ctx context.Context, req model.IntentRequest) model.Response {
	headline, err := r.news.Headline(ctx)
	if err != nil {
		slog.Error("error fetching gst news", "request_id", req.RequestID, "error", err)
		return r.errorPrompt()
	}

	if headline == "" {
		return r.cardStatement(r.templates.Render("no_gst_news", nil))
	}

	text := r.templates.Render("gst_news", map[string]string{"News": headline})
	res := r.cardQuestion(text)
	res.Reprompt = r.templates.Render("gst_news_re", nil)
	return res
}

func (r *Router) handleHelp(ctx context.Context, req model.IntentRequest) model.Response {
	return question(r.templates.Render("help_text", nil))
}

func (r *Router) farewell(name string) handlerFunc {
	return func(ctx context.Context, req model.IntentRequest) model.Response {
		return statement(r.templates.Render(name, nil))
	}
}

func handleNoop(ctx context.Context, req model.IntentRequest) model.Response {
	return model.Response{NoContent: true}
}

func (r *Router) unknownItemReprompt() model.Response {
	text := r.templates.Render("unknown_item_reprompt", nil)
	res := r.cardQuestion(text)
	res.Reprompt = text
	return res
}

func (r *Router) errorPrompt() model.Response {
	text := r.templates.Render("error_prompt", nil)
	res := r.cardQuestion(text)
	res.Reprompt = text
	return res
}

func (r *Router) cardStatement(text string) model.Response {
	res := statement(text)
	res.Card = r.simpleCard(text)
	return res
}

func (r *Router) cardQuestion(text string) model.Response {
	res := question(text)
	res.Card = r.simpleCard(text)
	return res
}

func (r *Router) simpleCard(body string) *model.Card {
	return &model.Card{
		Kind:  model.CardSimple,
		Title: r.templates.Render("card_title", nil),
		Body:  body,
	}
}

func statement(text string) model.Response {
	return model.Response{Speech: text}
}

func question(text string) model.Response {
	return model.Response{Speech: text, ExpectsFurtherInput: true}
}
