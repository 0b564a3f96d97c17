package ifacerun

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cfti/unitd/internal/config"
	"github.com/cfti/unitd/internal/unit"
)

// ErrJSONUnsupported is returned by every read/write path on a
// Format=json interface. JSON framing is reserved but not implemented,
// per spec.md §9 Open Question (a); this engine refuses explicitly
// instead of silently treating json like text.
var ErrJSONUnsupported = errors.New("ifacerun: json format is not implemented")

// ErrNoProcess is returned by OutputMessage when the interface has no
// live child process to write to - either it was never activated, or
// it has already been deactivated.
var ErrNoProcess = errors.New("No process running")

const (
	deactivateGracePeriod = 20
	deactivateGraceDelay  = 50 * time.Millisecond
)

// Interface is the activated form of a Description: one spawned child
// process plus, for text format, the two goroutines shuttling its
// stdout/stderr onto the manager's control channel.
type Interface struct {
	id               unit.Name
	name             string
	execStart        string
	workingDirectory string
	format           Format
	logger           *zap.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	cancel context.CancelFunc
	group  *errgroup.Group
	exited chan struct{}
}

func (i *Interface) ID() unit.Name { return i.id }

// Activate spawns exec_start in workingDirectory, wires up its streams,
// and (for text format) starts the reader goroutines before posting an
// InitialGreeting onto control. It mirrors the teacher's
// Interface.activate: build the command, take the output streams,
// spawn reader threads, stash the handle, greet.
func (i *Interface) Activate(cfg *config.Config, logger *zap.Logger, control chan<- ControlMessage) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if logger == nil {
		logger = zap.NewNop()
	}
	// activationID disambiguates log lines across repeated
	// activate/deactivate cycles of the same interface id (every
	// reload per SPEC_FULL.md §4.3 step 5 spawns a brand new process).
	activationID := uuid.New()
	i.logger = logger.With(zap.String("interface", i.id.String()), zap.String("activation", activationID.String()))

	if i.format == FormatJSON {
		return ErrJSONUnsupported
	}

	cmd := exec.Command("sh", "-c", i.execStart)
	cmd.Dir = i.workingDirectory

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", i.execStart, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, _ := errgroup.WithContext(ctx)

	if i.format == FormatText {
		group.Go(func() error {
			readText(ctx, i.id, control, stdout)
			return nil
		})
		group.Go(func() error {
			readText(ctx, i.id, control, stderr)
			return nil
		})
	}

	exited := make(chan struct{})
	go func() {
		cmd.Wait()
		close(exited)
	}()

	i.cmd = cmd
	i.stdin = stdin
	i.cancel = cancel
	i.group = group
	i.exited = exited

	trySend(control, ControlMessage{Origin: i.id, Contents: InitialGreeting{}}, i.logger)

	return nil
}

// Deactivate is best-effort: it signals the child to terminate, gives it
// a short bounded grace period (spec.md §5 leaves the exact grace period
// to the implementer), escalates to SIGKILL if needed, and joins the
// reader goroutines before returning. It always returns a result rescan
// can log; a stuck child never blocks it indefinitely.
func (i *Interface) Deactivate() error {
	i.mu.Lock()
	cmd := i.cmd
	cancel := i.cancel
	exited := i.exited
	group := i.group
	i.mu.Unlock()

	if cmd == nil {
		return nil
	}

	if cancel != nil {
		cancel()
	}

	if cmd.Process != nil {
		_ = cmd.Process.Signal(syscall.SIGTERM)
	}

	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(deactivateGraceDelay), deactivateGracePeriod)
	waitErr := backoff.Retry(func() error {
		select {
		case <-exited:
			return nil
		default:
			return errors.New("still running")
		}
	}, b)

	if waitErr != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-exited
	}

	if group != nil {
		_ = group.Wait()
	}

	i.mu.Lock()
	i.cmd = nil
	i.stdin = nil
	i.mu.Unlock()

	return nil
}

// OutputMessage writes one status message out to the child's stdin in
// the interface's declared wire format.
func (i *Interface) OutputMessage(msg StatusMessage) error {
	switch i.format {
	case FormatText:
		return i.textWrite(msg)
	case FormatJSON:
		return ErrJSONUnsupported
	default:
		return fmt.Errorf("unknown format %v", i.format)
	}
}

func (i *Interface) textWrite(msg StatusMessage) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.stdin == nil {
		return ErrNoProcess
	}

	w := bufio.NewWriter(i.stdin)

	var err error
	switch m := msg.(type) {
	case JigMessage:
		_, err = fmt.Fprintf(w, "JIG %s\n", m.ID)
	case HelloMessage:
		_, err = fmt.Fprintf(w, "HELLO %s\n", m.ID)
	case ScenarioMessage:
		if m.ID.IsZero() {
			_, err = fmt.Fprint(w, "SCENARIO\n")
		} else {
			_, err = fmt.Fprintf(w, "SCENARIO %s\n", m.ID)
		}
	case ScenariosMessage:
		if _, werr := fmt.Fprint(w, "SCENARIOS"); werr != nil {
			return werr
		}
		for _, id := range m.IDs {
			if _, werr := fmt.Fprintf(w, " %s", id); werr != nil {
				return werr
			}
		}
		_, err = fmt.Fprint(w, "\n")
	case DescribeMessage:
		_, err = fmt.Fprintf(w, "DESCRIBE %s %s %s %s\n",
			cftiEscape(m.Class), cftiEscape(m.Field), cftiEscape(m.Name), cftiEscape(m.Value))
	default:
		return fmt.Errorf("unhandled status message %T", msg)
	}

	if err != nil {
		return err
	}

	return w.Flush()
}

// readText reads whole lines from r, decodes and tokenizes each one,
// and posts a ManagerControlMessage-equivalent onto control for every
// non-blank line, exactly per spec.md §4.5. It exits quietly on EOF or
// read error, or when ctx is canceled while it is waiting to post a
// message; cancellation alone does not interrupt a blocked read.
func readText(ctx context.Context, id unit.Name, control chan<- ControlMessage, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		words := splitWords(scanner.Text())
		if len(words) == 0 {
			continue
		}

		verb := words[0]
		rest := words[1:]

		contents := dispatchVerb(verb, rest)

		select {
		case control <- ControlMessage{Origin: id, Contents: contents}:
		case <-ctx.Done():
			return
		}
	}
}

func dispatchVerb(verb string, rest []string) ControlMessageContents {
	switch toLower(verb) {
	case "scenarios":
		return Scenarios{}
	case "scenario":
		operand := ""
		if len(rest) > 0 {
			operand = strings.TrimSuffix(toLower(rest[0]), "."+unit.KindScenario.String())
		}
		name, err := unit.NameFromString(operand, unit.KindScenario)
		if err != nil {
			return Error{Message: fmt.Sprintf("Invalid scenario name: %s", err)}
		}
		return Scenario{Name: name}
	default:
		return Unimplemented{Verb: toLower(verb), Rest: join(rest)}
	}
}
