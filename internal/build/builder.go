package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	clientdist "github.com/weaver-dev/weaver/client/dist"
	"github.com/weaver-dev/weaver/internal/config"
	"github.com/weaver-dev/weaver/internal/werrors"
)

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Binary is the path to the compiled Go binary.
	Binary string

	// Public is the path to the public directory.
	Public string

	// Manifest is the static asset manifest (client bundle, CSS, copied
	// public files).
	Manifest map[string]string

	// LogicManifest maps logic module id -> public URL.
	LogicManifest map[string]string

	// ClientSize is the size of the client agent bundle in bytes.
	ClientSize int64

	// ClientGzipSize is the gzipped size of the client agent bundle.
	ClientGzipSize int64

	// CSSSize is the size of the CSS in bytes.
	CSSSize int64
}

// Options configures the builder.
type Options struct {
	// Minify enables minification.
	Minify bool

	// SourceMaps enables source map generation.
	SourceMaps bool

	// Target is the Go build target (e.g., "linux/amd64").
	Target string

	// LDFlags are linker flags for go build.
	LDFlags string

	// Tags are build tags.
	Tags []string

	// Verbose enables verbose output.
	Verbose bool

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder handles production builds.
type Builder struct {
	config  *config.Config
	options Options
}

// New creates a new builder.
func New(cfg *config.Config, options Options) *Builder {
	if !options.Minify && cfg.Build.Minify {
		options.Minify = true
	}
	if !options.SourceMaps && cfg.Build.SourceMaps {
		options.SourceMaps = true
	}
	if options.Target == "" && cfg.Build.Target != "" {
		options.Target = cfg.Build.Target
	}
	if options.LDFlags == "" && cfg.Build.LDFlags != "" {
		options.LDFlags = cfg.Build.LDFlags
	}
	if len(options.Tags) == 0 && len(cfg.Build.Tags) > 0 {
		options.Tags = cfg.Build.Tags
	}

	return &Builder{
		config:  cfg,
		options: options,
	}
}

// Build performs a production build.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{
		Manifest:      make(map[string]string),
		LogicManifest: make(map[string]string),
	}

	outputDir := b.config.OutputPath()
	publicDir := filepath.Join(outputDir, "public")

	b.progress("Cleaning output directory...")
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, werrors.New("W008").Wrap(err)
	}
	if err := os.MkdirAll(publicDir, 0755); err != nil {
		return nil, werrors.New("W008").Wrap(err)
	}

	b.progress("Compiling Go...")
	binaryPath := filepath.Join(outputDir, "server")
	if err := b.buildGo(ctx, binaryPath); err != nil {
		return nil, err
	}
	result.Binary = binaryPath

	b.progress("Bundling client agent...")
	clientPath, size, err := b.bundleClient(ctx, publicDir)
	if err != nil {
		return nil, err
	}
	result.ClientSize = size
	result.Manifest["weaver.min.js"] = filepath.Base(clientPath)

	b.progress("Transforming and bundling logic modules...")
	logicManifest, err := b.bundleLogicModules(ctx, publicDir)
	if err != nil {
		return nil, err
	}
	result.LogicManifest = logicManifest

	if b.config.HasTailwind() {
		b.progress("Compiling Tailwind CSS...")
		cssPath, size, err := b.compileTailwind(ctx, publicDir)
		if err != nil {
			return nil, err
		}
		result.CSSSize = size
		result.Manifest["styles.css"] = filepath.Base(cssPath)
	}

	b.progress("Copying static assets...")
	if err := b.copyAssets(publicDir, result.Manifest); err != nil {
		return nil, err
	}

	if b.config.HasS3() {
		b.progress("Uploading built assets to object storage...")
		if err := b.uploadBuiltAssets(ctx, publicDir, result); err != nil {
			return nil, err
		}
	}

	b.progress("Writing manifests...")
	if err := b.writeManifest(outputDir, "manifest.json", result.Manifest); err != nil {
		return nil, err
	}
	if err := b.writeManifest(outputDir, "logic-manifest.json", result.LogicManifest); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	result.Public = publicDir

	return result, nil
}

// buildGo compiles the Go binary.
func (b *Builder) buildGo(ctx context.Context, output string) error {
	args := []string{"build", "-o", output}

	ldflags := "-s -w"
	if b.options.LDFlags != "" {
		ldflags = b.options.LDFlags + " " + ldflags
	}
	args = append(args, "-ldflags", ldflags)

	if len(b.options.Tags) > 0 {
		tags := strings.Join(b.options.Tags, ",")
		args = append(args, "-tags", tags)
	}

	args = append(args, "-trimpath")
	args = append(args, ".")

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = b.config.Dir()

	env := os.Environ()
	if b.options.Target != "" {
		parts := strings.Split(b.options.Target, "/")
		if len(parts) == 2 {
			env = append(env, "GOOS="+parts[0])
			env = append(env, "GOARCH="+parts[1])
		}
	}
	env = append(env, "CGO_ENABLED=0")
	cmd.Env = env

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return werrors.New("W008").WithDetail(stderr.String()).Wrap(err)
	}

	return nil
}

// bundleClient bundles the client agent (client/src/boot.js, which
// imports client/src/sink.js) into a single IIFE.
func (b *Builder) bundleClient(ctx context.Context, publicDir string) (string, int64, error) {
	clientSrc := filepath.Join(b.config.Dir(), "client", "src", "boot.js")

	if _, err := os.Stat(clientSrc); os.IsNotExist(err) {
		clientSrc = ""
	}

	esbuildPath, err := exec.LookPath("esbuild")
	if err != nil {
		if _, err := exec.LookPath("npx"); err != nil {
			return b.fallbackClient(publicDir)
		}
		esbuildPath = "npx"
	}

	var outputFile string
	if b.options.Minify {
		outputFile = filepath.Join(publicDir, "weaver.min.js")
	} else {
		outputFile = filepath.Join(publicDir, "weaver.js")
	}

	if clientSrc != "" && esbuildPath != "" {
		args := []string{}
		if esbuildPath == "npx" {
			args = append(args, "esbuild")
		}
		args = append(args,
			clientSrc,
			"--bundle",
			"--format=iife",
			"--global-name=Weaver",
			"--outfile="+outputFile,
		)

		if b.options.Minify {
			args = append(args, "--minify")
		}
		if b.options.SourceMaps {
			args = append(args, "--sourcemap")
		}

		cmd := exec.CommandContext(ctx, esbuildPath, args...)
		cmd.Dir = b.config.Dir()

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return b.fallbackClient(publicDir)
		}
	} else {
		return b.fallbackClient(publicDir)
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		return outputFile, 0, nil
	}

	hash, _ := hashFile(outputFile)
	if hash != "" {
		ext := filepath.Ext(outputFile)
		base := strings.TrimSuffix(filepath.Base(outputFile), ext)
		hashedName := fmt.Sprintf("%s.%s%s", base, hash[:8], ext)
		hashedPath := filepath.Join(publicDir, hashedName)
		os.Rename(outputFile, hashedPath)
		outputFile = hashedPath
	}

	return outputFile, info.Size(), nil
}

// fallbackClient writes the embedded, pre-built client agent (the
// bundle go:embed already carries in client/dist) when esbuild isn't
// available, instead of a placeholder — the real agent ships either way.
func (b *Builder) fallbackClient(publicDir string) (string, int64, error) {
	outputFile := filepath.Join(publicDir, "weaver.min.js")
	if err := os.WriteFile(outputFile, clientdist.BootJS, 0644); err != nil {
		return "", 0, werrors.New("W008").Wrap(err)
	}

	hash, _ := hashFile(outputFile)
	if hash != "" {
		hashedName := fmt.Sprintf("weaver.%s.min.js", hash[:8])
		hashedPath := filepath.Join(publicDir, hashedName)
		os.Rename(outputFile, hashedPath)
		outputFile = hashedPath
	}

	return outputFile, int64(len(clientdist.BootJS)), nil
}

// bundleLogicModules scans the project's logic source directory for
// define*(...import("./path"), ...) call sites, applies Transform to
// bake in each module's id, then bundles every discovered module as its
// own esbuild entry point into publicDir/logic. The result is a manifest
// of id -> public URL.
func (b *Builder) bundleLogicModules(ctx context.Context, publicDir string) (map[string]string, error) {
	manifest := make(map[string]string)
	logicDir := b.config.LogicPath()

	info, err := os.Stat(logicDir)
	if err != nil || !info.IsDir() {
		return manifest, nil
	}

	logicOutDir := filepath.Join(publicDir, "logic")
	if err := os.MkdirAll(logicOutDir, 0755); err != nil {
		return nil, werrors.New("W009").Wrap(err)
	}

	seen := make(map[string]bool)

	walkErr := filepath.Walk(logicDir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".js" && ext != ".ts" && ext != ".jsx" && ext != ".tsx" {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return werrors.New("W009").WithDetail(path).Wrap(err)
		}

		transformed, refs := Transform(src)
		if err := os.WriteFile(path, transformed, fi.Mode()); err != nil {
			return werrors.New("W009").WithDetail("writing transformed " + path).Wrap(err)
		}

		for _, ref := range refs {
			if seen[ref.ID] {
				continue
			}
			seen[ref.ID] = true

			entry := ref.Src
			if !filepath.IsAbs(entry) {
				entry = filepath.Join(filepath.Dir(path), entry)
			}
			if _, err := os.Stat(entry); err != nil {
				continue
			}

			outFile, err := b.bundleLogicEntry(ctx, entry, ref.ID, logicOutDir)
			if err != nil {
				return err
			}
			manifest[ref.ID] = "/logic/" + filepath.Base(outFile)
		}

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return manifest, nil
}

// bundleLogicEntry bundles a single logic module entry point into
// logicOutDir, named after its content hash.
func (b *Builder) bundleLogicEntry(ctx context.Context, entry, id, logicOutDir string) (string, error) {
	outputFile := filepath.Join(logicOutDir, id+".js")

	esbuildPath, err := exec.LookPath("esbuild")
	if err != nil {
		if data, readErr := os.ReadFile(entry); readErr == nil {
			os.WriteFile(outputFile, data, 0644)
		}
		return outputFile, nil
	}

	args := []string{
		entry,
		"--bundle",
		"--format=esm",
		"--outfile=" + outputFile,
	}
	if b.options.Minify {
		args = append(args, "--minify")
	}

	cmd := exec.CommandContext(ctx, esbuildPath, args...)
	cmd.Dir = b.config.Dir()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", werrors.New("W009").WithDetail(stderr.String()).Wrap(err)
	}

	hash, _ := hashFile(outputFile)
	if hash == "" {
		return outputFile, nil
	}
	hashedPath := filepath.Join(logicOutDir, fmt.Sprintf("%s.%s.js", id, hash[:8]))
	os.Rename(outputFile, hashedPath)
	return hashedPath, nil
}

// compileTailwind compiles Tailwind CSS.
func (b *Builder) compileTailwind(ctx context.Context, publicDir string) (string, int64, error) {
	if _, err := exec.LookPath("npx"); err != nil {
		return "", 0, werrors.New("W008").
			WithDetail("npx is required for Tailwind CSS").
			WithSuggestion("Install Node.js from https://nodejs.org")
	}

	inputFile := b.config.Tailwind.Input
	if inputFile == "" {
		inputFile = filepath.Join(b.config.Dir(), "app", "styles", "input.css")
	} else if !filepath.IsAbs(inputFile) {
		inputFile = filepath.Join(b.config.Dir(), inputFile)
	}

	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		os.MkdirAll(filepath.Dir(inputFile), 0755)
		content := "@tailwind base;\n@tailwind components;\n@tailwind utilities;\n"
		os.WriteFile(inputFile, []byte(content), 0644)
	}

	outputFile := filepath.Join(publicDir, "styles.css")

	args := []string{
		"tailwindcss",
		"-i", inputFile,
		"-o", outputFile,
		"--minify",
	}

	configPath := b.config.TailwindConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		args = append(args, "-c", configPath)
	}

	cmd := exec.CommandContext(ctx, "npx", args...)
	cmd.Dir = b.config.Dir()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", 0, werrors.New("W008").WithDetail(stderr.String()).Wrap(err)
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		return outputFile, 0, nil
	}

	hash, _ := hashFile(outputFile)
	if hash != "" {
		hashedName := fmt.Sprintf("styles.%s.css", hash[:8])
		hashedPath := filepath.Join(publicDir, hashedName)
		os.Rename(outputFile, hashedPath)
		outputFile = hashedPath
	}

	return outputFile, info.Size(), nil
}

// copyAssets copies static assets with cache busting.
func (b *Builder) copyAssets(publicDir string, manifest map[string]string) error {
	srcDir := b.config.PublicPath()
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return nil
	}

	assetsDir := filepath.Join(publicDir, "assets")
	os.MkdirAll(assetsDir, 0755)

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, _ := filepath.Rel(srcDir, path)

		ext := strings.ToLower(filepath.Ext(relPath))
		if ext == ".js" || ext == ".css" {
			return nil
		}

		hash, _ := hashFile(path)
		base := strings.TrimSuffix(filepath.Base(relPath), ext)
		hashedName := fmt.Sprintf("%s.%s%s", base, hash[:8], ext)
		destPath := filepath.Join(assetsDir, hashedName)

		os.MkdirAll(filepath.Dir(destPath), 0755)

		if err := copyFile(path, destPath); err != nil {
			return err
		}

		manifest[relPath] = "assets/" + hashedName

		return nil
	})
}

// uploadBuiltAssets uploads the logic-module bundles and the thin
// client bundle to S3-compatible object storage, rewriting
// result.LogicManifest and result.Manifest's client entry to the
// returned CDN-fronted URLs.
func (b *Builder) uploadBuiltAssets(ctx context.Context, publicDir string, result *Result) error {
	files := make(uploadSet)
	for _, publicPath := range result.LogicManifest {
		files["logic/"+filepath.Base(publicPath)] = filepath.Join(publicDir, "logic", filepath.Base(publicPath))
	}
	if name, ok := result.Manifest["weaver.min.js"]; ok {
		files[name] = filepath.Join(publicDir, name)
	}

	urls, err := uploadToS3(ctx, b.config.Build.S3, files)
	if err != nil {
		return err
	}

	for id, publicPath := range result.LogicManifest {
		key := "logic/" + filepath.Base(publicPath)
		if url, ok := urls[key]; ok {
			result.LogicManifest[id] = url
		}
	}
	if name, ok := result.Manifest["weaver.min.js"]; ok {
		if url, ok := urls[name]; ok {
			result.Manifest["weaver.min.js"] = url
		}
	}

	return nil
}

// writeManifest writes a JSON manifest file.
func (b *Builder) writeManifest(outputDir, name string, manifest map[string]string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(outputDir, name)
	return os.WriteFile(manifestPath, data, 0644)
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// hashFile returns the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.config.OutputPath())
}
