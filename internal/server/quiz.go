package server

import (
	"context"
	"net/http"

	"bjj-foundation/internal/quiz"

	"connectrpc.com/connect"
)

const (
	QuizServiceName = "quiz.v1.QuizService"

	QuizServiceStartProcedure  = "/quiz.v1.QuizService/Start"
	QuizServiceAnswerProcedure = "/quiz.v1.QuizService/Answer"
	QuizServiceNextProcedure   = "/quiz.v1.QuizService/Next"
)

type StartRequest struct {
	Lang string `json:"lang,omitempty"`
}

// AnswerRequest and NextRequest name the attempt returned by Start.
type AnswerRequest struct {
	AttemptID string `json:"attemptId"`
	Option    int    `json:"option"`
	Lang      string `json:"lang,omitempty"`
}

type NextRequest struct {
	AttemptID string `json:"attemptId"`
	Lang      string `json:"lang,omitempty"`
}

type QuestionView struct {
	ID      int      `json:"id"`
	Header  string   `json:"header"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	// Correct is only revealed once the question is answered.
	Correct *int `json:"correct,omitempty"`
}

type OutcomeView struct {
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Emoji      string `json:"emoji"`
	Message    string `json:"message"`
}

type QuizResponse struct {
	State     quiz.State    `json:"state"`
	ScoreLine string        `json:"scoreLine"`
	Labels    quiz.Labels   `json:"labels"`
	Question  *QuestionView `json:"question,omitempty"`
	Outcome   *OutcomeView  `json:"outcome,omitempty"`
}

// QuizServer holds every attempt server side. The state in responses is for
// display only and is never read back.
type QuizServer struct {
	engine   *quiz.Engine
	attempts *quiz.Attempts
}

func NewQuizServer(engine *quiz.Engine, attempts *quiz.Attempts) *QuizServer {
	return &QuizServer{engine: engine, attempts: attempts}
}

func (s *QuizServer) Start(ctx context.Context, req *connect.Request[StartRequest]) (*connect.Response[QuizResponse], error) {
	state, err := s.engine.Start()
	if err != nil {
		return nil, toConnectError(err)
	}
	s.attempts.Put(state)
	return s.respond(state, req.Msg.Lang)
}

func (s *QuizServer) Answer(ctx context.Context, req *connect.Request[AnswerRequest]) (*connect.Response[QuizResponse], error) {
	state, err := s.attempts.Update(req.Msg.AttemptID, func(cur quiz.State) (quiz.State, error) {
		return s.engine.Answer(cur, req.Msg.Option)
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return s.respond(state, req.Msg.Lang)
}

func (s *QuizServer) Next(ctx context.Context, req *connect.Request[NextRequest]) (*connect.Response[QuizResponse], error) {
	state, err := s.attempts.Update(req.Msg.AttemptID, s.engine.Next)
	if err != nil {
		return nil, toConnectError(err)
	}
	return s.respond(state, req.Msg.Lang)
}

func (s *QuizServer) respond(state quiz.State, lang string) (*connect.Response[QuizResponse], error) {
	labels := s.engine.Bank().LabelsIn(lang)
	resp := &QuizResponse{
		State:     state,
		ScoreLine: quiz.ScoreLine(labels, state),
		Labels:    labels,
	}

	if state.Stage == quiz.StageResults {
		out, err := s.engine.Outcome(state)
		if err != nil {
			return nil, toConnectError(err)
		}
		resp.Outcome = &OutcomeView{
			Score:      out.Score,
			Total:      out.Total,
			Percentage: out.Percentage,
			Emoji:      out.Tier.Emoji,
			Message:    out.Tier.Message.In(lang),
		}
		return connect.NewResponse(resp), nil
	}

	q, err := s.engine.Current(state)
	if err != nil {
		return nil, toConnectError(err)
	}
	view := &QuestionView{
		ID:      q.ID,
		Header:  quiz.Header(labels, state),
		Text:    q.Text.In(lang),
		Options: q.OptionsIn(lang),
	}
	if state.Stage == quiz.StageAnswered {
		correct := q.Correct
		view.Correct = &correct
	}
	resp.Question = view
	return connect.NewResponse(resp), nil
}

// NewQuizHandler returns the mount path and handler for the quiz procedures.
func NewQuizHandler(srv *QuizServer, opts ...connect.HandlerOption) (string, http.Handler) {
	start := connect.NewUnaryHandler(QuizServiceStartProcedure, srv.Start, handlerOptions(opts...)...)
	answer := connect.NewUnaryHandler(QuizServiceAnswerProcedure, srv.Answer, handlerOptions(opts...)...)
	next := connect.NewUnaryHandler(QuizServiceNextProcedure, srv.Next, handlerOptions(opts...)...)

	return "/" + QuizServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case QuizServiceStartProcedure:
			start.ServeHTTP(w, r)
		case QuizServiceAnswerProcedure:
			answer.ServeHTTP(w, r)
		case QuizServiceNextProcedure:
			next.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
