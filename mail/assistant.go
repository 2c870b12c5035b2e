package mail

import (
	"strings"

	"github.com/pguso/email-agent-core/action"
	"github.com/pguso/email-agent-core/model"
	"github.com/pguso/email-agent-core/outputparser"
	"github.com/pguso/email-agent-core/prompt"
)

// Categories used by the classifier when none are supplied.
var DefaultCategories = []string{"support", "sales", "billing", "spam", "other"}

const classifyTemplate = `Classify the following email into exactly one category.

Categories: {categories}

Subject: {subject}
Body: {body}`

const replyTemplate = `Write a concise, friendly reply to the following email.
Sign off as {signature}.

Subject: {subject}
Body: {body}`

const keywordsTemplate = `Extract the most relevant keywords from the following email.

Subject: {subject}
Body: {body}`

// ClassifierOptions configures NewClassifier.
type ClassifierOptions struct {
	// Categories the classifier may choose from.
	Categories []string

	// Config overrides the generation parameters. Classification defaults
	// to deterministic sampling.
	Config model.Config
}

// NewClassifier builds the email classification unit. Invoked with
// {subject, body} variables it returns a parsed {category, confidence}
// object validated against the schema.
func NewClassifier(m model.Model, optFns ...func(o *ClassifierOptions)) *action.LLM {
	opts := ClassifierOptions{
		Categories: DefaultCategories,
		Config:     model.Config{Temperature: 0, MaxTokens: 256},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	tpl := prompt.New(classifyTemplate, prompt.WithPartials(map[string]any{
		"categories": strings.Join(opts.Categories, ", "),
	}))

	parser := outputparser.NewJSON(outputparser.WithSchema(map[string]outputparser.Kind{
		"category":   outputparser.KindString,
		"confidence": outputparser.KindNumber,
	}))

	return action.NewLLM("email_classifier", m, tpl, func(o *action.LLMOptions) {
		o.System = "You are an email triage assistant. Answer only with the requested JSON."
		o.Parser = parser
		o.Config = opts.Config
		o.AppendFormatInstructions = true
	})
}

// ReplyDrafterOptions configures NewReplyDrafter.
type ReplyDrafterOptions struct {
	// Signature closes the drafted reply.
	Signature string

	// Config overrides the generation parameters.
	Config model.Config
}

// NewReplyDrafter builds the reply drafting unit. Invoked with
// {subject, body} variables it returns the cleaned reply text.
func NewReplyDrafter(m model.Model, optFns ...func(o *ReplyDrafterOptions)) *action.LLM {
	opts := ReplyDrafterOptions{
		Signature: "The Support Team",
		Config:    model.Config{Temperature: 0.7, MaxTokens: 1024},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	tpl := prompt.New(replyTemplate, prompt.WithPartials(map[string]any{
		"signature": opts.Signature,
	}))

	return action.NewLLM("email_reply_drafter", m, tpl, func(o *action.LLMOptions) {
		o.System = "You draft helpful email replies on behalf of the mailbox owner."
		o.Parser = outputparser.NewText()
		o.Config = opts.Config
	})
}

// NewKeywordExtractor builds the keyword extraction unit. Invoked with
// {subject, body} variables it returns the parsed JSON array of keywords.
func NewKeywordExtractor(m model.Model) *action.LLM {
	tpl := prompt.New(keywordsTemplate)

	return action.NewLLM("email_keyword_extractor", m, tpl, func(o *action.LLMOptions) {
		o.System = "You extract search keywords from emails. Answer only with a JSON array of strings."
		o.Parser = outputparser.NewJSON()
		o.Config = model.Config{Temperature: 0, MaxTokens: 256}
	})
}

// Variables renders an email into the {subject, body} variable set the
// assistant units consume.
func Variables(e Email) map[string]any {
	return map[string]any{
		"subject": e.Subject,
		"body":    e.Text,
	}
}
