package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
	"github.com/oshokin/catpoint/internal/logger"
	"github.com/oshokin/catpoint/internal/service/camera"
	"github.com/oshokin/catpoint/internal/service/display"
)

var (
	// ErrUnknownCommand is returned for commands the console does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command has wrong arguments.
	ErrUsage = errors.New("invalid arguments")
)

// usage lists the supported commands.
const usage = `Commands:
  status                              show arming, alarm, camera and sensors
  arm home|away                       arm the system
  disarm                              disarm the system and clear the alarm
  sensor list                         list sensors
  sensor add <name> <type>            register a sensor (door, window, motion)
  sensor remove <name> <type>         unregister a sensor
  sensor activate <name> <type>       report a sensor as triggered
  sensor deactivate <name> <type>     report a sensor as calm
  image <path>                        scan a camera snapshot for cats
  help                                show this help

Unquoted sensor names are joined with single spaces;
quote a name to keep its spacing: sensor add "Front  Door" door
`

// Run opens a session, executes the commands in order and closes the session.
func Run(ctx context.Context, opts *Options, commands ...[]string) error {
	ctx = logger.WithName(ctx, "catpoint")

	session, err := Open(ctx, opts)
	if err != nil {
		return err
	}

	for _, args := range commands {
		if err = session.Exec(ctx, args); err != nil {
			break
		}
	}

	return errors.Join(err, session.Close(ctx))
}

// RunScript opens a session and executes one command per line of r.
// Blank lines and lines starting with # are skipped.
func RunScript(ctx context.Context, opts *Options, r io.Reader) error {
	ctx = logger.WithName(ctx, "catpoint")

	session, err := Open(ctx, opts)
	if err != nil {
		return err
	}

	err = session.ExecScript(ctx, r)

	return errors.Join(err, session.Close(ctx))
}

// ExecScript executes one command per line of r until the input ends,
// a command fails or the context is canceled.
func (s *Session) ExecScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		if err := ctx.Err(); err != nil {
			return err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		args, err := splitLine(text)
		if err == nil {
			err = s.Exec(ctx, args)
		}

		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	return nil
}

// Exec executes a single command.
//
//nolint:cyclop // One branch per command keeps the dispatch readable.
func (s *Session) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: empty command", ErrUsage)
	}

	logger.DebugKV(ctx, "Executing command", "args", args)

	name, rest := strings.ToLower(args[0]), args[1:]

	switch name {
	case "status":
		return s.status(ctx)
	case "arm":
		if len(rest) != 1 {
			return fmt.Errorf("%w: arm home|away", ErrUsage)
		}

		status, err := domain.ParseArmingStatus(rest[0])
		if err != nil {
			return err
		}

		if !status.IsArmed() {
			return fmt.Errorf("%w: arm home|away", ErrUsage)
		}

		return s.service.SetArmingStatus(ctx, status)
	case "disarm":
		return s.service.SetArmingStatus(ctx, domain.Disarmed)
	case "sensor":
		return s.sensor(ctx, rest)
	case "image":
		if len(rest) != 1 {
			return fmt.Errorf("%w: image <path>", ErrUsage)
		}

		img, err := camera.Load(rest[0])
		if err != nil {
			return err
		}

		return s.service.ProcessImage(ctx, img)
	case "help":
		_, _ = io.WriteString(s.out, usage)

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
}

// sensor executes the sensor subcommands.
func (s *Session) sensor(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: sensor list|add|remove|activate|deactivate", ErrUsage)
	}

	action := strings.ToLower(args[0])

	switch action {
	case "list":
		sensors, err := s.service.Sensors(ctx)
		if err != nil {
			return err
		}

		display.WriteSensors(s.out, sensors)

		return nil
	case "add", "remove", "activate", "deactivate":
	default:
		return fmt.Errorf("%w: sensor %q", ErrUnknownCommand, args[0])
	}

	key, err := parseSensorKey(args[1:])
	if err != nil {
		return err
	}

	switch action {
	case "add":
		return s.service.AddSensor(ctx, domain.NewSensor(key.Name, key.Type))
	case "remove":
		return s.service.RemoveSensor(ctx, key)
	case "activate":
		return s.service.ChangeSensorActivationStatus(ctx, key, true)
	default:
		return s.service.ChangeSensorActivationStatus(ctx, key, false)
	}
}

// status prints the whole system state.
func (s *Session) status(ctx context.Context) error {
	arming, err := s.service.ArmingStatus(ctx)
	if err != nil {
		return err
	}

	alarm, err := s.service.AlarmStatus(ctx)
	if err != nil {
		return err
	}

	sensors, err := s.service.Sensors(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(s.out, "Arming status: %s (%s)\n", arming.Description(), arming)
	_, _ = fmt.Fprintf(s.out, "Alarm status: %s (%s)\n", alarm.Description(), alarm)
	_, _ = fmt.Fprintf(s.out, "Cat detected: %t\n", s.service.CatDetected())

	display.WriteSensors(s.out, sensors)

	return nil
}

// parseSensorKey reads "<name...> <type>"; the name may contain spaces.
func parseSensorKey(args []string) (domain.SensorKey, error) {
	if len(args) < 2 { //nolint:mnd // Name and type.
		return domain.SensorKey{}, fmt.Errorf("%w: expected <name> <type>", ErrUsage)
	}

	sensorType, err := domain.ParseSensorType(args[len(args)-1])
	if err != nil {
		return domain.SensorKey{}, err
	}

	key := domain.SensorKey{
		Name: strings.Join(args[:len(args)-1], " "),
		Type: sensorType,
	}

	if err = key.Validate(); err != nil {
		return domain.SensorKey{}, err
	}

	return key, nil
}

// splitLine splits a script line on whitespace.
// Double quotes group words and keep the spacing between them.
func splitLine(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t'):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if quoted {
		return nil, fmt.Errorf("%w: unterminated quote", ErrUsage)
	}

	if started {
		args = append(args, current.String())
	}

	return args, nil
}
