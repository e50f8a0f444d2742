// Package wizard walks the user through building a sync configuration, one question at a time.
//
// The [Wizard] is a state machine independent of any terminal library: each call to [Wizard.Answer] consumes one
// answer and returns the next [Question]. internal/ui renders the questions with bubbletea.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/services"
	"github.com/desertthunder/autoalbum/internal/shared"
)

// State is the step the wizard is waiting on.
type State int

const (
	NeedExistingChoice State = iota
	NeedReplaceAuth
	NeedAuth
	NeedSourceOwnership
	NeedSourceAlbum
	NeedDestinationOwnership
	NeedDestinationAlbum
	NeedNewAlbumName
	Done
)

func (s State) String() string {
	switch s {
	case NeedExistingChoice:
		return "existing_choice"
	case NeedReplaceAuth:
		return "replace_auth"
	case NeedAuth:
		return "auth"
	case NeedSourceOwnership:
		return "source_ownership"
	case NeedSourceAlbum:
		return "source_album"
	case NeedDestinationOwnership:
		return "destination_ownership"
	case NeedDestinationAlbum:
		return "destination_album"
	case NeedNewAlbumName:
		return "new_album_name"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Kind selects how a question is answered.
type Kind int

const (
	Select  Kind = iota // Pick one of Choices by value
	Confirm             // Yes or no
	Text                // Free text, empty takes Default
)

// Answers accepted for [Confirm] questions.
const (
	Yes = "yes"
	No  = "no"
)

// Choice values that are not album ids.
const (
	ChoiceAmend     = "amend"
	ChoiceDelete    = "delete"
	ChoiceOwned     = "owned"
	ChoiceShared    = "shared"
	ChoiceCreateNew = "<create-new>"
)

const (
	DefaultSecretPath   = "./client_secret.json"
	NewAlbumTitlePrefix = "[AUTO] "
)

// Choice is one option of a [Select] question.
type Choice struct {
	Label string
	Value string
}

// Question is what the wizard asks next.
type Question struct {
	State   State
	Kind    Kind
	Prompt  string
	Choices []Choice
	Default string // Choice value, Yes/No or text
}

// Connector builds an album service from a client secret, running the OAuth flow if needed.
type Connector func(ctx context.Context, secret json.RawMessage) (services.AlbumService, error)

// Options configures a [Wizard].
type Options struct {
	Existing   *models.SyncConfiguration // Configuration already on disk, nil if none
	SecretFile string                    // Client secret path given up front; skips the auth question
	ReadSecret func(path string) (json.RawMessage, error)
	Connect    Connector
	OnDelete   func() error // Called when the user discards the existing configuration
}

// Wizard is the configuration state machine. It is not safe for concurrent use.
type Wizard struct {
	opts    Options
	state   State
	conf    models.SyncConfiguration
	albums  services.AlbumService
	cache   map[models.Ownership][]models.Album
	source  models.Album
	created *models.Album
	secret  string
}

// New returns a wizard; call [Wizard.Start] for the first question.
func New(opts Options) *Wizard {
	if opts.ReadSecret == nil {
		opts.ReadSecret = shared.ReadClientSecret
	}
	return &Wizard{opts: opts, cache: make(map[models.Ownership][]models.Album)}
}

// State returns the current state.
func (w *Wizard) State() State { return w.state }

// Result returns the configuration built so far; complete once the state is [Done].
func (w *Wizard) Result() *models.SyncConfiguration {
	conf := w.conf
	return &conf
}

// SecretPath returns the client secret file read during this run, if any.
func (w *Wizard) SecretPath() string { return w.secret }

// CreatedAlbum returns the destination album created by the wizard, if any.
func (w *Wizard) CreatedAlbum() *models.Album { return w.created }

// Start returns the first question.
func (w *Wizard) Start(ctx context.Context) (Question, error) {
	if w.opts.Existing != nil {
		return w.enter(NeedExistingChoice)
	}
	return w.afterExisting()
}

// Answer consumes an answer to the current question and returns the next one.
//
// An invalid answer or a failing remote call returns an error and leaves the state unchanged, so the same
// question can be asked again.
func (w *Wizard) Answer(ctx context.Context, answer string) (Question, error) {
	answer = strings.TrimSpace(answer)

	switch w.state {
	case NeedExistingChoice:
		switch answer {
		case ChoiceAmend:
			w.conf = *w.opts.Existing
		case ChoiceDelete:
			if w.opts.OnDelete != nil {
				if err := w.opts.OnDelete(); err != nil {
					return w.current(), fmt.Errorf("failed to delete existing configuration: %w", err)
				}
			}
			w.conf = models.SyncConfiguration{}
		default:
			return w.current(), invalid(answer, ChoiceAmend, ChoiceDelete)
		}
		return w.afterExisting()

	case NeedReplaceAuth:
		replace, err := parseConfirm(answer)
		if err != nil {
			return w.current(), err
		}
		if !replace {
			return w.enter(NeedSourceOwnership)
		}
		w.conf.Auth = nil
		return w.afterReplace()

	case NeedAuth:
		path := answer
		if path == "" {
			path = DefaultSecretPath
		}
		if err := w.loadSecret(path); err != nil {
			return w.current(), err
		}
		return w.enter(NeedSourceOwnership)

	case NeedSourceOwnership:
		ownership, err := parseOwnership(answer)
		if err != nil {
			return w.current(), err
		}
		if err := w.fetchAlbums(ctx, ownership, false); err != nil {
			return w.current(), err
		}
		w.conf.Source.IsShared = ownership.IsShared()
		return w.enter(NeedSourceAlbum)

	case NeedSourceAlbum:
		album, ok := w.findAlbum(w.conf.Source.Ownership(), answer)
		if !ok {
			return w.current(), fmt.Errorf("%w: unknown album %q", shared.ErrInvalidInput, answer)
		}
		w.source = album
		w.conf.Source.ID = album.ID
		return w.enter(NeedDestinationOwnership)

	case NeedDestinationOwnership:
		ownership, err := parseOwnership(answer)
		if err != nil {
			return w.current(), err
		}
		if err := w.fetchAlbums(ctx, ownership, ownership == models.Owned); err != nil {
			return w.current(), err
		}
		w.conf.Destination.IsShared = ownership.IsShared()
		return w.enter(NeedDestinationAlbum)

	case NeedDestinationAlbum:
		if answer == ChoiceCreateNew && !w.conf.Destination.IsShared {
			return w.enter(NeedNewAlbumName)
		}
		album, ok := w.findAlbum(w.conf.Destination.Ownership(), answer)
		if !ok {
			return w.current(), fmt.Errorf("%w: unknown album %q", shared.ErrInvalidInput, answer)
		}
		w.conf.Destination.ID = album.ID
		return w.enter(Done)

	case NeedNewAlbumName:
		title := answer
		if title == "" {
			title = w.newAlbumTitle()
		}
		album, err := w.albums.CreateAlbum(ctx, title)
		if err != nil {
			return w.current(), err
		}
		w.created = album
		w.cache[models.Owned] = append(w.cache[models.Owned], *album)
		w.conf.Destination = models.AlbumRef{ID: album.ID}
		return w.enter(Done)

	default:
		return w.current(), fmt.Errorf("%w: wizard is finished", shared.ErrInvalidInput)
	}
}

func (w *Wizard) afterExisting() (Question, error) {
	if w.conf.HasAuth() {
		return w.enter(NeedReplaceAuth)
	}
	return w.afterReplace()
}

func (w *Wizard) afterReplace() (Question, error) {
	if w.opts.SecretFile != "" {
		if err := w.loadSecret(w.opts.SecretFile); err != nil {
			return w.current(), err
		}
		return w.enter(NeedSourceOwnership)
	}
	return w.enter(NeedAuth)
}

func (w *Wizard) loadSecret(path string) error {
	secret, err := w.opts.ReadSecret(path)
	if err != nil {
		return err
	}
	w.conf.Auth = secret
	w.secret = path
	w.albums = nil
	clear(w.cache)
	return nil
}

// fetchAlbums connects on first use and caches the album list per ownership.
// An empty list is an error unless allowEmpty is set.
func (w *Wizard) fetchAlbums(ctx context.Context, ownership models.Ownership, allowEmpty bool) error {
	if list, ok := w.cache[ownership]; ok && (allowEmpty || len(list) > 0) {
		return nil
	}

	if w.albums == nil {
		if w.opts.Connect == nil {
			return fmt.Errorf("%w: no album service", shared.ErrServiceUnavailable)
		}
		albums, err := w.opts.Connect(ctx, w.conf.Auth)
		if err != nil {
			return err
		}
		w.albums = albums
	}

	list, err := w.albums.ListAllAlbums(ctx, ownership)
	if err != nil {
		return err
	}
	w.cache[ownership] = list

	if len(list) == 0 && !allowEmpty {
		return fmt.Errorf("%w: no %s albums", shared.ErrAlbumNotFound, ownership)
	}
	return nil
}

func (w *Wizard) findAlbum(ownership models.Ownership, id string) (models.Album, bool) {
	for _, a := range w.cache[ownership] {
		if a.ID == id {
			return a, true
		}
	}
	return models.Album{}, false
}

func (w *Wizard) newAlbumTitle() string {
	title := w.source.Title
	if title == "" {
		title = "..."
	}
	return NewAlbumTitlePrefix + title
}

func (w *Wizard) enter(state State) (Question, error) {
	w.state = state
	return w.current(), nil
}

// current builds the question for the current state from the answers so far.
func (w *Wizard) current() Question {
	q := Question{State: w.state}

	switch w.state {
	case NeedExistingChoice:
		q.Kind = Select
		q.Prompt = "A configuration file already exists. What would you like to do?"
		q.Choices = []Choice{
			{Label: "Amend existing configuration", Value: ChoiceAmend},
			{Label: "Delete existing configuration", Value: ChoiceDelete},
		}
		q.Default = ChoiceAmend
	case NeedReplaceAuth:
		q.Kind = Confirm
		q.Prompt = "Would you like to replace your client secrets?"
		q.Default = No
	case NeedAuth:
		q.Kind = Text
		q.Prompt = "Provide path to new secret file:"
		q.Default = DefaultSecretPath
	case NeedSourceOwnership:
		q = ownershipQuestion(q, "source", w.conf.Source)
	case NeedSourceAlbum:
		q.Kind = Select
		q.Prompt = "Which album is the source?"
		q.Choices = albumChoices(w.cache[w.conf.Source.Ownership()])
		q.Default = defaultChoice(q.Choices, w.conf.Source.ID)
	case NeedDestinationOwnership:
		q = ownershipQuestion(q, "destination", w.conf.Destination)
	case NeedDestinationAlbum:
		q.Kind = Select
		q.Prompt = "Which album is the destination?"
		q.Choices = albumChoices(w.cache[w.conf.Destination.Ownership()])
		if !w.conf.Destination.IsShared {
			q.Choices = append([]Choice{{Label: "<Create New Album>", Value: ChoiceCreateNew}}, q.Choices...)
		}
		q.Default = defaultChoice(q.Choices, w.conf.Destination.ID)
	case NeedNewAlbumName:
		q.Kind = Text
		q.Prompt = "What would you like to call your new album?"
		q.Default = w.newAlbumTitle()
	}

	return q
}

func ownershipQuestion(q Question, which string, ref models.AlbumRef) Question {
	q.Kind = Select
	q.Prompt = fmt.Sprintf("Do you own the %s album?", which)
	q.Choices = []Choice{
		{Label: "Yes; I own it", Value: ChoiceOwned},
		{Label: "No; It's shared with me", Value: ChoiceShared},
	}
	q.Default = ChoiceOwned
	if ref.IsShared {
		q.Default = ChoiceShared
	}
	return q
}

func albumChoices(albums []models.Album) []Choice {
	choices := make([]Choice, 0, len(albums))
	for _, a := range albums {
		choices = append(choices, Choice{Label: a.DisplayTitle(), Value: a.ID})
	}
	return choices
}

// defaultChoice returns id when it is one of choices, else the first choice.
func defaultChoice(choices []Choice, id string) string {
	for _, c := range choices {
		if id != "" && c.Value == id {
			return id
		}
	}
	if len(choices) > 0 {
		return choices[0].Value
	}
	return ""
}

func parseOwnership(answer string) (models.Ownership, error) {
	switch answer {
	case ChoiceOwned:
		return models.Owned, nil
	case ChoiceShared:
		return models.Shared, nil
	default:
		return 0, invalid(answer, ChoiceOwned, ChoiceShared)
	}
}

func parseConfirm(answer string) (bool, error) {
	switch strings.ToLower(answer) {
	case Yes, "y":
		return true, nil
	case No, "n", "":
		return false, nil
	default:
		return false, invalid(answer, Yes, No)
	}
}

func invalid(answer string, allowed ...string) error {
	return fmt.Errorf("%w: %q (expected %s)", shared.ErrInvalidInput, answer, strings.Join(allowed, " or "))
}
