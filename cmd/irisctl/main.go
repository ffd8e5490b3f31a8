// irisctl 离线工具：构建帧、解码时长列表、回放抓包样本
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taoyao-code/iris-gateway/internal/capture"
	"github.com/taoyao-code/iris-gateway/internal/protocol/iris"
)

const usage = `usage: irisctl <command> [flags]

commands:
  encode   -address 0xF9CB -cmd POWER -mode POOL [-json]
  decode   [-format pairs|raw] <durations...>   (无参数时从 stdin 读取)
  replay   <captures.yaml>
  catalog
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	var err error
	switch args[0] {
	case "encode":
		err = runEncode(args[1:], stdout, stderr)
	case "decode":
		err = runDecode(args[1:], stdin, stdout, stderr)
	case "replay":
		err = runReplay(args[1:], stdout)
	case "catalog":
		runCatalog(stdout)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "error:", err)
		}
		return 1
	}
	return 0
}

func runEncode(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	address := fs.String("address", "0xF9CB", "device address (decimal or 0x hex)")
	cmdName := fs.String("cmd", "POWER", "command name")
	modeName := fs.String("mode", "POOL", "mode name: POOL|SPA|POOLSPA")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr, err := iris.ParseAddress(*address)
	if err != nil {
		return err
	}
	cmd, err := iris.ParseCommand(*cmdName)
	if err != nil {
		return err
	}
	mode, err := iris.ParseMode(*modeName)
	if err != nil {
		return err
	}

	frame := iris.BuildFrame(addr, cmd, mode)
	seq := iris.Modulate(frame)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"address":     iris.FormatAddress(addr),
			"command":     cmd.String(),
			"mode":        mode.String(),
			"frame":       frame.Hex(),
			"pulses":      seq,
			"raw":         seq.Raw(),
			"duration_us": seq.Duration(),
		})
	}
	fmt.Fprintf(stdout, "frame:    %s\n", frame)
	fmt.Fprintf(stdout, "pulses:   %d entries, %dus\n", len(seq), seq.Duration())
	fmt.Fprintf(stdout, "sequence: %s\n", joinInt32(seq))
	return nil
}

func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", capture.FormatPairs, "pairs|raw")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var text string
	if fs.NArg() > 0 {
		text = strings.Join(fs.Args(), " ")
	} else {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		text = string(b)
	}
	pulses, err := parseDurations(text)
	if err != nil {
		return err
	}

	c := capture.Capture{Name: "stdin", Format: strings.ToLower(*format), Pulses: pulses}
	if c.Format != capture.FormatPairs && c.Format != capture.FormatRaw {
		return fmt.Errorf("unknown format %q", *format)
	}
	decoded, err := c.Decode()
	if err != nil {
		return err
	}
	if len(decoded) == 0 {
		return errors.New("no valid frame found")
	}
	for _, d := range decoded {
		printDecoded(stdout, d)
	}
	return nil
}

func runReplay(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("replay expects exactly one captures file")
	}
	f, err := capture.Load(args[0])
	if err != nil {
		return err
	}
	failed := 0
	for _, r := range f.Replay() {
		if r.Err != nil {
			failed++
			fmt.Fprintf(stdout, "FAIL %s: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(stdout, "ok   %s: %d frame(s)\n", r.Name, len(r.Decoded))
		for _, d := range r.Decoded {
			fmt.Fprint(stdout, "     ")
			printDecoded(stdout, d)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d captures failed", failed, len(f.Captures))
	}
	return nil
}

func runCatalog(stdout io.Writer) {
	for _, c := range iris.Commands() {
		fmt.Fprintf(stdout, "command %-10s 0x%02X\n", c, uint8(c))
	}
	for _, m := range iris.Modes() {
		fmt.Fprintf(stdout, "mode    %-10s 0x%02X\n", m, uint8(m))
	}
}

func printDecoded(w io.Writer, d iris.Decoded) {
	fmt.Fprintf(w, "address=%s command=%s mode=%s frame=%s\n",
		iris.FormatAddress(d.Address), d.Command, d.Mode, d.Frame)
}

// parseDurations 解析以空白、逗号或方括号分隔的整数列表
func parseDurations(s string) ([]int32, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', '[', ']', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	out := make([]int32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", f)
		}
		out = append(out, int32(v))
	}
	if len(out) == 0 {
		return nil, errors.New("no durations given")
	}
	return out, nil
}

func joinInt32(v []int32) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatInt(int64(x), 10)
	}
	return strings.Join(parts, ", ")
}
