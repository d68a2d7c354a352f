package dispatch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattjoyce/mp3edit/internal/log"
)

func TestInvocationRequestArgsAreCopied(t *testing.T) {
	req := newInvocationRequest("id-1", "/music/album")

	args := req.Args()
	args[0] = "/elsewhere"

	assert.Equal(t, "metamusic", req.ToolName())
	assert.Equal(t, []string{"/music/album"}, req.Args())
	assert.Equal(t, "id-1", req.ID())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "not_handled", NotHandled.String())
	assert.Equal(t, "handled", Handled.String())
	assert.Equal(t, "handled_with_menu", HandledWithMenu.String())
}

func TestEventKinds(t *testing.T) {
	assert.Equal(t, KindCommand, CommandEvent{}.Kind())
	assert.Equal(t, KindMenu, MenuQueryEvent{}.Kind())
	assert.Equal(t, KindKey, KeyPressEvent{}.Kind())
}

type recordingHost struct {
	launchErr error
	launched  []string
	emitted   []string
}

func (h *recordingHost) Cwd() (string, error) { return "/music", nil }

func (h *recordingHost) Launch(_ context.Context, name string, args []string) (ProcessResult, error) {
	h.launched = append(h.launched, name)
	h.launched = append(h.launched, args...)
	return ProcessResult{}, h.launchErr
}

func (h *recordingHost) Emit(signal string, _ map[string]any) {
	h.emitted = append(h.emitted, signal)
}

func TestLaunchFailureIsLoggedWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log.SetupWriter(&buf, "debug", "text")
	defer log.Setup("ERROR", "json")

	host := &recordingHost{launchErr: errors.New("boom")}
	d := New(host, nil)
	d.newID = func() string { return "req-42" }

	res, err := d.launch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, Handled, res.Outcome)
	assert.Equal(t, []string{"metamusic", "/music"}, host.launched)
	assert.Equal(t, []string{"update"}, host.emitted)

	out := buf.String()
	assert.Contains(t, out, "tool launch failed")
	assert.Contains(t, out, "request_id=req-42")
	assert.Contains(t, out, "component=dispatch")
	assert.Contains(t, out, "tool=metamusic")
}
