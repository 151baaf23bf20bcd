package client

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/gost-search/internal/analysis/types"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

// State is the lifecycle of one analysis
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateStreaming State = "streaming"
	StateError     State = "error"
	StateSuccess   State = "success"
)

const (
	// PendingStatus is shown until the status line arrives
	PendingStatus = "Анализ..."
	// NoDataStatus replaces the status after a timeout
	NoDataStatus = "Нет данных"
	// EmptyResponseMessage is reported when the stream ends without content
	EmptyResponseMessage = "Получен пустой ответ от GigaChat"
)

// TimeoutMessage is reported when the analysis exceeds timeout
func TimeoutMessage(timeout time.Duration) string {
	return fmt.Sprintf("Время ожидания ответа от сервера истекло (%d сек). Попробуйте еще раз.", int(timeout.Seconds()))
}

// View is the observable state of an analysis
type View struct {
	State State
	// DocumentStatus is the first response line without its "Статус:" prefix
	DocumentStatus string
	// StatusFound reports whether the first line has been received
	StatusFound bool
	// Classification maps DocumentStatus through the status vocabulary
	Classification types.DocumentStatus
	// Body is everything after the first line
	Body  string
	Error string
}

// Terminal reports whether no further transitions will happen
func (v View) Terminal() bool {
	return v.State == StateError || v.State == StateSuccess
}

// Observer receives every change of the view
type Observer func(View)

// Session is the state machine that turns stream chunks into a View
type Session struct {
	vocab   types.Vocabulary
	observe Observer
	logger  *logger.Logger

	decoder     lineDecoder
	accumulated strings.Builder
	received    bool
	view        View
}

// NewSession creates an idle session
func NewSession(vocab types.Vocabulary, observe Observer, log *logger.Logger) *Session {
	if vocab == nil {
		vocab = types.DefaultVocabulary()
	}
	return &Session{
		vocab:   vocab,
		observe: observe,
		logger:  log,
		view:    View{State: StateIdle},
	}
}

// View returns a snapshot of the current state
func (s *Session) View() View {
	return s.view
}

// Start discards any previous analysis and enters loading
func (s *Session) Start() {
	s.decoder.reset()
	s.accumulated.Reset()
	s.received = false
	s.view = View{State: StateLoading, DocumentStatus: PendingStatus}
	s.emit()
}

// Feed consumes one chunk of the response body and reports whether a terminal state was reached
func (s *Session) Feed(chunk []byte) bool {
	if s.view.Terminal() {
		return true
	}
	if s.view.State != StateStreaming {
		s.view.State = StateStreaming
		s.emit()
	}
	return s.apply(s.decoder.feed(chunk))
}

// End handles the end of the body without a terminal frame
func (s *Session) End() {
	if s.view.Terminal() {
		return
	}
	if s.apply(s.decoder.flush()) {
		return
	}
	s.finish()
}

// Fail enters the error state with message
func (s *Session) Fail(message string) {
	if s.view.Terminal() {
		return
	}
	s.view.State = StateError
	s.view.Error = message
	s.view.DocumentStatus = ""
	s.emit()
}

// TimedOut enters the error state reserved for the client deadline
func (s *Session) TimedOut(timeout time.Duration) {
	if s.view.Terminal() {
		return
	}
	s.view.State = StateError
	s.view.Error = TimeoutMessage(timeout)
	s.view.DocumentStatus = NoDataStatus
	s.emit()
}

func (s *Session) apply(events []event) bool {
	for _, ev := range events {
		switch ev.kind {
		case eventDone:
			s.finish()
			return true
		case eventError:
			s.Fail(ev.text)
			return true
		case eventMalformed:
			s.logger.Warn("could not parse stream chunk", zap.String("payload", ev.text))
		case eventContent:
			s.appendContent(ev.text)
		}
	}
	return false
}

func (s *Session) finish() {
	if !s.received {
		s.Fail(EmptyResponseMessage)
		return
	}
	// an answer without a newline never sets the status; the placeholder stays
	s.view.State = StateSuccess
	s.emit()
}

// appendContent routes text before the first newline to the status line
func (s *Session) appendContent(delta string) {
	s.received = true

	if s.view.StatusFound {
		s.view.Body += delta
		s.emit()
		return
	}

	s.accumulated.WriteString(delta)
	acc := s.accumulated.String()
	i := strings.IndexByte(acc, '\n')
	if i < 0 {
		return
	}

	s.setStatus(acc[:i], acc[i+1:])
	s.emit()
}

func (s *Session) setStatus(line, rest string) {
	s.view.StatusFound = true
	s.view.DocumentStatus = types.CleanStatusLine(line)
	s.view.Classification = s.vocab.Classify(s.view.DocumentStatus)
	s.view.Body = rest
	s.accumulated.Reset()
}

func (s *Session) emit() {
	if s.observe != nil {
		s.observe(s.view)
	}
}
