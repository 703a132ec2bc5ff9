// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/stockdeck/internal/api"
	"github.com/jeranaias/stockdeck/internal/model"
)

func TestSendMessage_WhitespaceOnlyIsNoOp(t *testing.T) {
	for _, text := range []string{"", "   ", " \t\n "} {
		w := newTestWidget(nil)
		cmd := w.sendMessage(text)

		if cmd != nil {
			t.Errorf("sendMessage(%q) returned a cmd, want nil", text)
		}
		if w.MessageCount() != 0 {
			t.Errorf("sendMessage(%q) appended %d messages, want 0", text, w.MessageCount())
		}
		if w.Pending() != 0 {
			t.Errorf("sendMessage(%q) left %d pending sends, want 0", text, w.Pending())
		}
	}
}

func TestSendMessage_AppendsUserSynchronously(t *testing.T) {
	w := newTestWidget(nil)

	cmd := w.sendMessage("  hello  ")
	if cmd == nil {
		t.Fatal("sendMessage() returned nil cmd, want request command")
	}
	if w.MessageCount() != 1 {
		t.Fatalf("MessageCount() = %d before the reply, want 1", w.MessageCount())
	}

	msg := w.Transcript().GetLastMessage()
	if msg.Role != model.RoleUser {
		t.Errorf("Role = %v, want user", msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want trimmed %q", msg.Content, "hello")
	}
	if w.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", w.Pending())
	}
}

func TestSendCmd_DeliversReply(t *testing.T) {
	svc := &stubService{reply: "hi there"}
	w := newTestWidget(svc)

	got := w.sendCmd("hello")()
	reply, ok := got.(ReplyMsg)
	if !ok {
		t.Fatalf("sendCmd() produced %T, want ReplyMsg", got)
	}
	if reply.Reply != "hi there" || reply.Err != nil {
		t.Errorf("ReplyMsg = {%q, %v}, want {%q, nil}", reply.Reply, reply.Err, "hi there")
	}
	if svc.lastMessage != "hello" {
		t.Errorf("backend received %q, want %q", svc.lastMessage, "hello")
	}
}

func TestSendAndReply_GrowsTranscriptByTwo(t *testing.T) {
	w := newTestWidget(nil)

	w.sendMessage("how accurate are predictions?")
	w.Update(ReplyMsg{Reply: "Compare RMSE and MAE across models."})

	if w.MessageCount() != 2 {
		t.Fatalf("MessageCount() = %d after send and reply, want 2", w.MessageCount())
	}

	history := w.Transcript().GetHistory()
	if history[0].Role != model.RoleUser {
		t.Errorf("history[0].Role = %v, want user", history[0].Role)
	}
	if history[1].Role != model.RoleBot {
		t.Errorf("history[1].Role = %v, want bot", history[1].Role)
	}
	if history[1].Content != "Compare RMSE and MAE across models." {
		t.Errorf("history[1].Content = %q", history[1].Content)
	}
	if w.Pending() != 0 {
		t.Errorf("Pending() = %d after reply, want 0", w.Pending())
	}
}

func TestReply_BackendStatusAppendsFallback(t *testing.T) {
	statusErrs := []error{
		&api.ClientError{Type: api.ErrTypeServer, Message: "chat request failed: 500 Internal Server Error"},
		&api.ClientError{Type: api.ErrTypeBadRequest, Message: "Message is required"},
		&api.ClientError{Type: api.ErrTypeNotFound, Message: "chat request failed: 404 Not Found"},
	}

	for _, err := range statusErrs {
		w := newTestWidget(nil)
		w.sendMessage("hello")
		w.Update(ReplyMsg{Err: err})

		got := w.Transcript().GetLastMessage()
		if got.Content != "Sorry, I encountered an error. Please try again." {
			t.Errorf("reply for %v = %q, want the exact fallback", err, got.Content)
		}
		if got.Role != model.RoleBot || !got.IsError {
			t.Errorf("fallback rendered as Role=%v IsError=%v, want bot error message", got.Role, got.IsError)
		}
	}
}

func TestReply_TransportFailureCarriesDescription(t *testing.T) {
	w := newTestWidget(nil)
	w.sendMessage("hello")
	w.Update(ReplyMsg{Err: api.ErrBackendDown})

	got := w.Transcript().GetLastMessage()
	if !strings.Contains(got.Content, "backend is not reachable") {
		t.Errorf("Content = %q, want the failure description embedded", got.Content)
	}
	if got.Content == FallbackReply {
		t.Error("transport failure used the canned fallback, want the description")
	}
	if got.Role != model.RoleBot || !got.IsError {
		t.Errorf("failure rendered as Role=%v IsError=%v, want bot error message", got.Role, got.IsError)
	}
}

func TestReply_OverlappingSendsSettleIndependently(t *testing.T) {
	w := newTestWidget(nil)

	w.sendMessage("first question")
	w.sendMessage("second question")
	if w.Pending() != 2 {
		t.Fatalf("Pending() = %d after two sends, want 2", w.Pending())
	}

	// The second request settles first; its reply appends first.
	w.Update(ReplyMsg{Reply: "answer to second"})
	w.Update(ReplyMsg{Reply: "answer to first"})

	if w.MessageCount() != 4 {
		t.Fatalf("MessageCount() = %d, want 4", w.MessageCount())
	}

	history := w.Transcript().GetHistory()
	if history[2].Content != "answer to second" {
		t.Errorf("history[2].Content = %q, want completion order preserved", history[2].Content)
	}
	if history[3].Content != "answer to first" {
		t.Errorf("history[3].Content = %q, want completion order preserved", history[3].Content)
	}
	if w.Pending() != 0 {
		t.Errorf("Pending() = %d after both replies, want 0", w.Pending())
	}
}

func TestTips_AppendsExactlyOne(t *testing.T) {
	w := newTestWidget(nil)

	w.Update(TipsMsg{Tips: []string{"Tip A", "Tip B"}})

	if w.MessageCount() != 1 {
		t.Fatalf("MessageCount() = %d after tips, want exactly 1", w.MessageCount())
	}

	got := w.Transcript().GetLastMessage()
	if got.Content != "Tip A" && got.Content != "Tip B" {
		t.Errorf("tip Content = %q, want one of the delivered tips", got.Content)
	}
	if got.Role != model.RoleBot || got.IsError {
		t.Errorf("tip rendered as Role=%v IsError=%v, want plain bot message", got.Role, got.IsError)
	}
}

func TestTips_ChoiceFollowsInjectedSource(t *testing.T) {
	tips := []string{"Tip A", "Tip B", "Tip C", "Tip D"}
	want := tips[rand.New(rand.NewSource(7)).Intn(len(tips))]

	w := newTestWidget(nil)
	w.SetRandSource(rand.NewSource(7))
	w.Update(TipsMsg{Tips: tips})

	if got := w.Transcript().GetLastMessage().Content; got != want {
		t.Errorf("tip Content = %q, want %q from the seeded source", got, want)
	}
}

func TestTips_FailuresAreInvisible(t *testing.T) {
	w := newTestWidget(nil)
	w.Update(TipsMsg{Err: api.ErrBackendDown})
	if w.MessageCount() != 0 {
		t.Errorf("MessageCount() = %d after tips error, want 0", w.MessageCount())
	}

	w.Update(TipsMsg{Tips: nil})
	w.Update(TipsMsg{Tips: []string{}})
	if w.MessageCount() != 0 {
		t.Errorf("MessageCount() = %d after empty tips, want 0", w.MessageCount())
	}
}

func TestRequests_CarryNoWidgetDeadline(t *testing.T) {
	svc := &stubService{tips: []string{"Tip A"}}
	w := newTestWidget(svc)

	w.sendCmd("hello")()
	if svc.sawDeadline {
		t.Error("Chat received a deadline-bearing context; the client's HTTP timeout is the only cutoff")
	}

	w.loadTipsCmd()()
	if svc.sawDeadline {
		t.Error("Tips received a deadline-bearing context; the client's HTTP timeout is the only cutoff")
	}
}

func TestLoadTipsCmd_FetchesList(t *testing.T) {
	svc := &stubService{tips: []string{"Tip A"}}
	w := newTestWidget(svc)

	got := w.loadTipsCmd()()
	tipsMsg, ok := got.(TipsMsg)
	if !ok {
		t.Fatalf("loadTipsCmd() produced %T, want TipsMsg", got)
	}
	if len(tipsMsg.Tips) != 1 || tipsMsg.Tips[0] != "Tip A" {
		t.Errorf("TipsMsg.Tips = %v, want [Tip A]", tipsMsg.Tips)
	}
	if svc.tipCalls != 1 {
		t.Errorf("tip endpoint called %d times, want 1", svc.tipCalls)
	}
}

func TestHandleKey_EnterSubmitsAndClearsInput(t *testing.T) {
	w := newTestWidget(nil)
	w.Toggle()
	w.input.SetValue("what is lstm")

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("enter with text returned nil cmd, want request command")
	}
	if w.MessageCount() != 1 {
		t.Errorf("MessageCount() = %d after enter, want 1", w.MessageCount())
	}
	if w.input.Value() != "" {
		t.Errorf("input.Value() = %q after enter, want cleared", w.input.Value())
	}
}

func TestHandleKey_EnterOnEmptyInputIsNoOp(t *testing.T) {
	w := newTestWidget(nil)
	w.Toggle()

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter with empty input returned a cmd, want nil")
	}
	if w.MessageCount() != 0 {
		t.Errorf("MessageCount() = %d after empty enter, want 0", w.MessageCount())
	}
}

func TestHandleKey_EscCloses(t *testing.T) {
	w := newTestWidget(nil)
	w.Toggle()

	w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if w.IsOpen() {
		t.Error("IsOpen() = true after esc, want false")
	}
}
