package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/petasbytes/stepagent/memory"
)

type capture struct {
	url  string
	body []byte
}

type fakeTransport struct {
	respStatus int
	respBody   []byte
	captured   *capture
	calls      int
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if f.captured != nil {
		f.captured.url = req.URL.String()
		f.captured.body = b
	}
	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(bytes.NewReader(f.respBody)),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

type anthropicReq struct {
	Model  string `json:"model"`
	System []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func TestAnthropic_Complete_SendsSystemFieldAndReturnsText(t *testing.T) {
	capReq := &capture{}
	fake := &fakeTransport{
		respStatus: 200,
		respBody: []byte(`{"role":"assistant","content":[
			{"type":"text","text":"{\"step\":\"output\","},
			{"type":"text","text":"\"content\":\"done\"}"}]}`),
		captured: capReq,
	}
	c := NewAnthropic("test-key", "", "", &http.Client{Transport: fake})

	h := memory.NewHistory("be terse", "hi")
	got, err := c.Complete(context.Background(), h.Messages())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != `{"step":"output","content":"done"}` {
		t.Fatalf("joined text: got %q", got)
	}

	var rb anthropicReq
	if err := json.Unmarshal(capReq.body, &rb); err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, capReq.body)
	}
	if rb.Model != string(DefaultAnthropicModel) {
		t.Errorf("model: got %q", rb.Model)
	}
	if len(rb.System) != 1 || rb.System[0].Text != "be terse" {
		t.Errorf("system field: %+v", rb.System)
	}
	if len(rb.Messages) != 1 || rb.Messages[0].Role != "user" || rb.Messages[0].Content[0].Text != "hi" {
		t.Errorf("messages: %+v", rb.Messages)
	}
	if !strings.HasSuffix(capReq.url, "/v1/messages") {
		t.Errorf("url: got %q", capReq.url)
	}
}

func TestAnthropic_Complete_AuthFailureSurfaces(t *testing.T) {
	fake := &fakeTransport{
		respStatus: 401,
		respBody:   []byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`),
	}
	c := NewAnthropic("", "", "", &http.Client{Transport: fake})
	_, err := c.Complete(context.Background(), memory.NewHistory("s", "q").Messages())
	if err == nil {
		t.Fatal("expected error on 401")
	}
	if fake.calls != 1 {
		t.Errorf("expected a single attempt, got %d", fake.calls)
	}
}

func TestToAnthropicMessages_CoalescesAndEndsOnUser(t *testing.T) {
	h := memory.NewHistory("sys", "q")
	h.AppendAssistant(`{"step":"think","content":"a"}`)
	h.AppendAssistant(`{"step":"think","content":"b"}`)

	system, msgs := toAnthropicMessages(h.Messages())
	if system != "sys" {
		t.Fatalf("system: got %q", system)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected user, assistant, nudge; got %d messages", len(msgs))
	}
	wantRoles := []string{"user", "assistant", "user"}
	for i, m := range msgs {
		if string(m.Role) != wantRoles[i] {
			t.Errorf("role %d: got %q want %q", i, m.Role, wantRoles[i])
		}
	}
	merged := msgs[1].Content[0].OfText.Text
	if merged != "{\"step\":\"think\",\"content\":\"a\"}\n{\"step\":\"think\",\"content\":\"b\"}" {
		t.Errorf("merged assistant text: %q", merged)
	}
	if msgs[2].Content[0].OfText.Text != continueNudge {
		t.Errorf("nudge: %q", msgs[2].Content[0].OfText.Text)
	}
}

func TestToAnthropicMessages_NoNudgeAfterUser(t *testing.T) {
	h := memory.NewHistory("sys", "q")
	h.AppendAssistant(`{"step":"action"}`)
	h.AppendUser(`{"step":"observe","content":"ok"}`)
	_, msgs := toAnthropicMessages(h.Messages())
	if len(msgs) != 3 || msgs[2].Content[0].OfText.Text != `{"step":"observe","content":"ok"}` {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
}
