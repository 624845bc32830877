package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dnanderson/Prism2/internal/prism"
	"github.com/dnanderson/Prism2/internal/protocol"
	"github.com/dnanderson/Prism2/internal/usbprobe"
)

// shell is the interactive command loop over a controller.
type shell struct {
	controller *prism.Controller
	rl         *readline.Instance
}

func newShell(controller *prism.Controller) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "prism2> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline: %w", err)
	}
	return &shell{controller: controller, rl: rl}, nil
}

func (s *shell) Close() error { return s.rl.Close() }

func (s *shell) out() io.Writer { return s.rl.Stdout() }

// Run reads and dispatches commands until exit, EOF, or context cancel.
func (s *shell) Run(ctx context.Context) error {
	s.printBanner()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "devices", "d":
			s.cmdDevices()

		case "probe":
			s.cmdProbe()

		case "connect", "c":
			s.cmdConnect(args)

		case "disconnect":
			s.report(s.controller.Disconnect())

		case "send", "s":
			s.cmdSend(args)

		case "cmd":
			s.cmdCatalog(args)

		case "commands":
			s.cmdCommandList()

		case "history", "h":
			s.cmdHistory()

		case "show":
			s.cmdShow(args)

		case "sim":
			s.cmdSim(args)

		case "status":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.out(), "Exiting...")
			return nil

		default:
			fmt.Fprintf(s.out(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *shell) report(err error) {
	if err != nil {
		fmt.Fprintf(s.out(), "error: %v\n", err)
	}
}

func (s *shell) printBanner() {
	mode := "hardware"
	if s.controller.Simulated() {
		mode = "simulation"
	}
	fmt.Fprintf(s.out(), "Prism2 NI-845x console (%s mode). Type 'help' for commands.\n", mode)
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out(), `
Commands:
  devices            - List detected NI-845x devices
  probe              - Scan the USB bus for National Instruments hardware
  connect [n]        - Open device number n (default: first)
  disconnect         - Close the open device
  send <hex>         - Send a raw hex command over SPI
  cmd <name>         - Send a built-in command by name (see 'commands')
  commands           - List the built-in commands
  history            - List sent commands and their responses
  show <n>           - Decode history entry n field by field
  sim on|off         - Switch between simulated and real hardware
  status             - Show backend, selection, and connection state
  help               - Show this help
  exit               - Quit`)
}

func (s *shell) cmdDevices() {
	devices := s.controller.Devices()
	if len(devices) == 0 {
		fmt.Fprintln(s.out(), "No devices found.")
		return
	}
	for i, d := range devices {
		marker := " "
		if d == s.controller.Selected() {
			marker = "*"
		}
		fmt.Fprintf(s.out(), "%s %d: %s\n", marker, i, d)
	}
}

func (s *shell) cmdProbe() {
	infos, total, err := usbprobe.Probe()
	if err != nil {
		if errors.Is(err, usbprobe.ErrUnsupported) {
			fmt.Fprintln(s.out(), "USB enumeration is not supported on this platform.")
			return
		}
		s.report(err)
		return
	}
	fmt.Fprintf(s.out(), "%d USB device(s) on the bus, %d from National Instruments.\n", total, len(infos))
	for _, info := range infos {
		fmt.Fprintf(s.out(), "  VID %04X PID %04X\n", info.VendorID, info.ProductID)
	}
}

func (s *shell) cmdConnect(args []string) {
	if err := s.controller.RefreshDevices(); err != nil {
		s.report(err)
		return
	}
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(s.out(), "usage: connect [n] (got %q)\n", args[0])
			return
		}
		devices := s.controller.Devices()
		if n < 0 || n >= len(devices) {
			fmt.Fprintf(s.out(), "device index %d out of range (%d found)\n", n, len(devices))
			return
		}
		if err := s.controller.Select(devices[n]); err != nil {
			s.report(err)
			return
		}
	}
	if err := s.controller.Connect(); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out(), "Connected to %s.\n", s.controller.Selected())
}

func (s *shell) cmdSend(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out(), "usage: send <hex>")
		return
	}
	s.transfer(args[0])
}

func (s *shell) cmdCatalog(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out(), "usage: cmd <name> (see 'commands')")
		return
	}
	label := strings.Join(args, " ")
	payload, ok := protocol.CatalogLookup(label)
	if !ok {
		fmt.Fprintf(s.out(), "unknown command %q (see 'commands')\n", label)
		return
	}
	s.transfer(payload)
}

func (s *shell) transfer(commandHex string) {
	response, err := s.controller.Send(commandHex)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out(), "-> %s\n<- %s\n", strings.ToUpper(commandHex), response)
}

func (s *shell) cmdCommandList() {
	for _, e := range protocol.Catalog {
		fmt.Fprintf(s.out(), "  %-14s %s\n", e.Label, e.Hex)
	}
}

func (s *shell) cmdHistory() {
	history := s.controller.History()
	if len(history) == 0 {
		fmt.Fprintln(s.out(), "No transfers yet.")
		return
	}
	for i, e := range history {
		fmt.Fprintf(s.out(), "  %d: %s -> %s\n", i, e.Command, e.Response)
	}
}

func (s *shell) cmdShow(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out(), "usage: show <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(s.out(), "usage: show <n> (got %q)\n", args[0])
		return
	}
	if err := s.controller.SelectHistory(n); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintln(s.out(), s.controller.BreakdownText())
}

func (s *shell) cmdSim(args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(s.out(), "usage: sim on|off")
		return
	}
	if err := s.controller.SetSimulation(args[0] == "on"); err != nil {
		s.report(err)
		return
	}
	s.cmdStatus()
}

func (s *shell) cmdStatus() {
	mode := "hardware"
	if s.controller.Simulated() {
		mode = "simulation"
	}
	state := "disconnected"
	if s.controller.Connected() {
		state = "connected"
	}
	selected := s.controller.Selected()
	if selected == "" {
		selected = "(none)"
	}
	fmt.Fprintf(s.out(), "backend: %s, device: %s, state: %s\n", mode, selected, state)
}
