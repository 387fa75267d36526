// Command stegimg hides payloads in the least-significant bits of
// lossless RGB images and recovers them again.
//
//	stegimg hide-file --in cover.png --out stego.png --file secret.bin [--method border]
//	stegimg hide-text --in cover.png --out stego.png --text "note"
//	stegimg extract   --in stego.png [--out-dir dir]
//	stegimg info      --in cover.png
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/pcomorek/stegimg"
	"github.com/pcomorek/stegimg/armor"
	"github.com/pcomorek/stegimg/imgio"
	"github.com/pcomorek/stegimg/quality"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var run func(args []string) error
	switch os.Args[1] {
	case "hide-file":
		run = hideFile
	case "hide-text":
		run = hideText
	case "extract":
		run = extract
	case "info":
		run = info
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "stegimg: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err := run(os.Args[2:]); err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: stegimg <command> [flags]

commands:
  hide-file   hide a file inside an image
  hide-text   hide a text note inside an image
  extract     recover a hidden payload from an image
  info        show per-method capacity of an image

run "stegimg <command> --help" for command flags`)
}

// commonFlags registers the flags every command shares and wires up
// logging. The returned callback resolves the config after parsing.
func commonFlags(fs *pflag.FlagSet) func() (config, error) {
	configPath := fs.String("config", "", "YAML file with defaults")
	verbose := fs.BoolP("verbose", "v", false, "debug logging")
	return func() (config, error) {
		level := slog.LevelInfo
		if *verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return loadConfig(*configPath)
	}
}

func hideFile(args []string) error {
	fs := pflag.NewFlagSet("hide-file", pflag.ExitOnError)
	setup := commonFlags(fs)
	in := fs.String("in", "", "cover image (png or bmp)")
	out := fs.String("out", "", "stego image to write")
	file := fs.String("file", "", "file to hide")
	methodFlag := fs.String("method", "", "storage method: all, even, odd or border")
	useArmor := fs.Bool("armor", false, "wrap the payload in Golay error correction")
	report := fs.Bool("report", false, "log the PSNR of the stego image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := setup()
	if err != nil {
		return err
	}
	if *in == "" || *out == "" || *file == "" {
		return fmt.Errorf("--in, --out and --file are required")
	}

	m, err := resolveMethod(*methodFlag, cfg)
	if err != nil {
		return err
	}
	grid, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	name := filepath.Base(*file)
	if *useArmor || cfg.ArmorSeed != 0 {
		if data, err = armor.Encode(data, armorOptions(cfg)...); err != nil {
			return err
		}
		slog.Debug("payload armored", "bytes", len(data))
	}

	var original *imgio.RGBGrid
	if *report {
		original = grid.Clone()
	}
	if err := stegimg.HideFile(context.Background(), grid, data, name, m); err != nil {
		return err
	}
	if err := imgio.Save(*out, grid); err != nil {
		return err
	}
	slog.Info("payload hidden", "file", name, "bytes", len(data), "method", m.String(), "out", *out)
	if *report {
		logPSNR(original, grid)
	}
	return nil
}

func hideText(args []string) error {
	fs := pflag.NewFlagSet("hide-text", pflag.ExitOnError)
	setup := commonFlags(fs)
	in := fs.String("in", "", "cover image (png or bmp)")
	out := fs.String("out", "", "stego image to write")
	text := fs.String("text", "", "text to hide")
	methodFlag := fs.String("method", "", "storage method: all, even, odd or border")
	name := fs.String("name", "", "filename recorded for the text payload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := setup()
	if err != nil {
		return err
	}
	if *in == "" || *out == "" || *text == "" {
		return fmt.Errorf("--in, --out and --text are required")
	}

	m, err := resolveMethod(*methodFlag, cfg)
	if err != nil {
		return err
	}
	grid, err := imgio.Load(*in)
	if err != nil {
		return err
	}

	var opts []stegimg.Option
	if *name != "" {
		opts = append(opts, stegimg.WithTextFilename(*name))
	} else if cfg.TextFilename != "" {
		opts = append(opts, stegimg.WithTextFilename(cfg.TextFilename))
	}

	rep, err := stegimg.HideText(context.Background(), grid, *text, m, opts...)
	if err != nil {
		// the pre-flight report explains capacity failures
		slog.Debug("capacity", "required_bits", rep.RequiredBits,
			"available_bits", rep.AvailableBits, "max_text_len", rep.MaxTextLen)
		return err
	}
	if err := imgio.Save(*out, grid); err != nil {
		return err
	}
	slog.Info("text hidden", "chars", len(*text), "method", m.String(),
		"utilization", fmt.Sprintf("%.1f%%", rep.Utilization*100), "out", *out)
	return nil
}

func extract(args []string) error {
	fs := pflag.NewFlagSet("extract", pflag.ExitOnError)
	setup := commonFlags(fs)
	in := fs.String("in", "", "stego image")
	outDir := fs.String("out-dir", "", "directory for the extracted payload")
	useArmor := fs.Bool("armor", false, "unwrap Golay payload armor")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := setup()
	if err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required")
	}
	dir := *outDir
	if dir == "" {
		dir = cfg.OutputDir
	}

	grid, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	payload, err := stegimg.Extract(context.Background(), grid)
	if err != nil {
		return err
	}

	data := payload.Data
	if !payload.IsFile {
		// text payloads are stored as single-byte code points and
		// written back out as UTF-8
		data = []byte(payload.Text())
	} else if *useArmor || cfg.ArmorSeed != 0 {
		if data, err = armor.Decode(data, armorOptions(cfg)...); err != nil {
			return err
		}
	}

	// never trust an embedded name with a path in it
	dest := filepath.Join(dir, filepath.Base(payload.Filename))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	kind := "file"
	if !payload.IsFile {
		kind = "text"
	}
	slog.Info("payload extracted", "type", kind, "name", payload.Filename, "bytes", len(data), "dest", dest)
	return nil
}

func info(args []string) error {
	fs := pflag.NewFlagSet("info", pflag.ExitOnError)
	setup := commonFlags(fs)
	in := fs.String("in", "", "image to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := setup(); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required")
	}

	grid, err := imgio.Load(*in)
	if err != nil {
		return err
	}
	w, h := grid.Width(), grid.Height()
	fmt.Printf("%s: %dx%d pixels\n", *in, w, h)
	for _, m := range stegimg.Methods() {
		capacity, err := stegimg.Capacity(w, h, m)
		if err != nil {
			return err
		}
		maxBytes, err := stegimg.MaxPayloadBytes(w, h, m)
		if err != nil {
			return err
		}
		fmt.Printf("  %-8s %8d bit slots, up to %d payload bytes\n", m.String(), capacity, maxBytes)
	}
	return nil
}

func resolveMethod(flagValue string, cfg config) (stegimg.Method, error) {
	s := flagValue
	if s == "" {
		s = cfg.Method
	}
	return stegimg.ParseMethod(s)
}

func armorOptions(cfg config) []armor.Option {
	if cfg.ArmorSeed != 0 {
		return []armor.Option{armor.WithShuffle(cfg.ArmorSeed)}
	}
	return nil
}

func logPSNR(original, stego *imgio.RGBGrid) {
	psnr, err := quality.PSNR(original, stego)
	if err != nil {
		slog.Warn("psnr unavailable", "error", err)
		return
	}
	slog.Info("image quality", "psnr_db", fmt.Sprintf("%.2f", psnr))
}
