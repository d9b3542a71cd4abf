package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dshills/seatkeys/internal/config"
	"github.com/dshills/seatkeys/internal/eventloop"
	"github.com/dshills/seatkeys/internal/input/key"
	"github.com/dshills/seatkeys/internal/ipc"
	"github.com/dshills/seatkeys/internal/logging"
	"github.com/dshills/seatkeys/internal/seat"
)

// RunOptions holds run command options
type RunOptions struct {
	SeatName string
	Devices  []string
	Grab     bool
	Events   []string
	Watch    bool
}

// NewRunCommand creates the command that runs the daemon
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Read keyboards and resolve bindings",
		Long: `Attach keyboards to a seat, resolve their key bindings and write ipc events as JSON lines to stdout.
Without --device every evdev node that reports letter keys is attached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runDaemon(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SeatName, "seat", "seat0", "Seat name")
	cmd.Flags().StringSliceVarP(&opts.Devices, "device", "d", nil, "Evdev device node to attach (repeatable)")
	cmd.Flags().BoolVar(&opts.Grab, "grab", false, "Grab devices so no other reader sees their events")
	cmd.Flags().StringSliceVar(&opts.Events, "events", []string{string(ipc.EventBinding)}, "ipc event types to write (input, binding, bar_state_update)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload the configuration file when it changes")

	return cmd
}

func runDaemon(ctx context.Context, opts *RunOptions) error {
	root := newLogger(globals)
	log := logging.Component(root, "seatkeysd")

	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}

	loop := eventloop.New(nil, logging.Component(root, "eventloop"))
	defer loop.Close()

	notifier := ipc.NewNotifier(logging.Component(root, "ipc"))
	types := make([]ipc.EventType, 0, len(opts.Events))
	for _, t := range opts.Events {
		types = append(types, ipc.EventType(t))
	}
	notifier.Stream(os.Stdout, types...)

	exec := &commandExecutor{log: logging.Component(root, "exec"), notifier: notifier}
	s := seat.New(loop, cfg,
		seat.WithName(opts.SeatName),
		seat.WithLogger(logging.Component(root, "seat")),
		seat.WithExecutor(exec),
		seat.WithClient(&logClient{log: logging.Component(root, "client")}),
		seat.WithSession(logSession{log: logging.Component(root, "session")}),
		seat.WithNotifier(notifier),
	)
	exec.seat = s

	if opts.Watch && cfg.Path() != "" {
		w, err := config.NewWatcher(cfg.Path(), loop, func(c *config.Config) {
			log.WithField("path", c.Path()).Info("Reloading configuration")
			s.ApplyConfig(c, true)
		}, logging.Component(root, "config"))
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Warn("Configuration watcher stopped")
			}
		}()
	}

	paths := opts.Devices
	if len(paths) == 0 {
		if paths, err = discoverKeyboards(log); err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return errors.New("no keyboards found")
	}

	var wg sync.WaitGroup
	devices := make([]*keyboardDevice, 0, len(paths))
	for _, path := range paths {
		dev, err := openKeyboard(path, opts.Grab)
		if err != nil {
			log.WithError(err).Warn("Skipping keyboard")
			continue
		}
		devices = append(devices, dev)
		wg.Add(1)
		go func() {
			defer wg.Done()
			attach(ctx, loop, s, dev, log)
		}()
	}
	defer func() {
		for _, dev := range devices {
			_ = dev.Close()
		}
		wg.Wait()
	}()

	log.WithFields(logrus.Fields{
		"seat":      opts.SeatName,
		"keyboards": len(devices),
	}).Info("Seat running")
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// attach adds dev to the seat and feeds it key events until the device
// stops. The keyboard is destroyed when reading fails.
func attach(ctx context.Context, loop *eventloop.Loop, s *seat.Seat, dev *keyboardDevice, log *logrus.Entry) {
	log = log.WithField("device", dev.path)

	added := make(chan seat.Handle, 1)
	err := loop.Post(func() {
		h, err := s.AddKeyboard(dev.info)
		if err != nil {
			log.WithError(err).Warn("Failed to add keyboard")
		}
		added <- h
	})
	if err != nil {
		return
	}
	var h seat.Handle
	select {
	case h = <-added:
	case <-ctx.Done():
		return
	}
	if h.IsZero() {
		return
	}

	err = dev.readKeys(func(ev key.Event) {
		_ = loop.Post(func() {
			if err := s.Key(h, ev); err != nil {
				log.WithError(err).Debug("Dropping key event")
			}
		})
	})
	log.WithError(err).Info("Keyboard removed")
	_ = loop.Post(func() {
		if err := s.Destroy(h); err != nil && !errors.Is(err, seat.ErrStaleHandle) {
			log.WithError(err).Warn("Failed to destroy keyboard")
		}
	})
}
