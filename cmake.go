package linkorder

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Build tool constants
const (
	unixMakefiles   = "Unix Makefiles"
	nmakeProgram    = "nmake"
	makeProgram     = "make"
	platformWindows = "windows"
)

// NativeBuildConfig configures the build of the wrapped native library
// whose archives the resolver will scan.
type NativeBuildConfig struct {
	// SourceDir is the directory containing CMakeLists.txt.
	SourceDir string

	// BuildDir is the out-of-tree build directory. Defaults to a
	// "build" directory next to the source.
	BuildDir string

	// BuildArgs are additional arguments passed to the configure step.
	BuildArgs []string

	// Env holds environment variable overrides for the build.
	Env map[string]string

	// Parallel is the number of parallel build jobs (0 = tool default).
	Parallel int

	// Verbose records the invoked commands in the build output.
	Verbose bool

	// CleanFirst runs the clean target before building.
	CleanFirst bool
}

func (c *NativeBuildConfig) buildDir() string {
	if c.BuildDir != "" {
		return c.BuildDir
	}
	return filepath.Join(c.SourceDir, "build")
}

// NativeBuildResult contains the output and status of a native build.
type NativeBuildResult struct {
	Success  bool     // True if the build completed successfully
	Output   []string // Lines of output from the build tools
	Archives []string // Paths to static archives produced by the build
	Error    error    // Error if the build failed, nil otherwise
}

// CMakeBuilder drives the cmake configure -> build -> locate workflow
// for the wrapped library.
//
// The builder is stateless; the same instance may build multiple source
// trees concurrently.
type CMakeBuilder struct{}

// Name returns the builder name used in error messages.
func (b *CMakeBuilder) Name() string {
	return "CMake"
}

// Build configures and compiles the native library, then locates the
// static archives it produced. The returned result's Archives are the
// candidates a subsequent Resolve over the build directory will
// catalog.
func (b *CMakeBuilder) Build(ctx context.Context, config *NativeBuildConfig) (*NativeBuildResult, error) {
	result := &NativeBuildResult{
		Success: false,
		Output:  []string{},
	}

	if err := b.runConfigure(ctx, config, result); err != nil {
		result.Error = err
		return result, err
	}

	if err := b.runBuild(ctx, config, result); err != nil {
		result.Error = err
		return result, err
	}

	archives, err := b.findArchives(config.buildDir())
	if err != nil {
		result.Error = err
		return result, err
	}

	result.Archives = archives
	result.Success = true
	return result, nil
}

// Clean removes build artifacts via the build tool's clean target.
func (b *CMakeBuilder) Clean(ctx context.Context, config *NativeBuildConfig) error {
	buildDir := config.buildDir()

	cleanCmd := exec.CommandContext(ctx, "cmake", "--build", buildDir, "--target", "clean")
	if err := cleanCmd.Run(); err != nil {
		// Fall back to make clean if a Makefile generator was used.
		if _, statErr := os.Stat(filepath.Join(buildDir, "Makefile")); statErr == nil {
			makeCmd := exec.CommandContext(ctx, b.getMakeProgram(), "clean")
			makeCmd.Dir = buildDir
			return makeCmd.Run()
		}
	}
	return nil
}

// runConfigure executes cmake to generate the build system.
func (b *CMakeBuilder) runConfigure(ctx context.Context, config *NativeBuildConfig, result *NativeBuildResult) error {
	args := []string{"-S", config.SourceDir, "-B", config.buildDir()}
	args = append(args, "-DCMAKE_BUILD_TYPE=Release")

	if generator := b.getGenerator(); generator != "" {
		args = append(args, "-G", generator)
	}

	args = append(args, config.BuildArgs...)

	cmd := exec.CommandContext(ctx, "cmake", args...)
	cmd.Env = buildEnv(config.Env)

	output, err := cmd.CombinedOutput()
	result.Output = append(result.Output, strings.Split(string(output), "\n")...)

	if config.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: cmake %s", strings.Join(args, " ")))
	}

	if err != nil {
		return buildError("CMake", result.Output, err)
	}
	return nil
}

// runBuild executes the build command.
func (b *CMakeBuilder) runBuild(ctx context.Context, config *NativeBuildConfig, result *NativeBuildResult) error {
	buildDir := config.buildDir()

	if config.CleanFirst {
		cleanCmd := exec.CommandContext(ctx, "cmake", "--build", buildDir, "--target", "clean")
		cleanOutput, _ := cleanCmd.CombinedOutput()
		result.Output = append(result.Output, strings.Split(string(cleanOutput), "\n")...)
	}

	args := []string{"--build", buildDir, "--config", "Release"}
	if config.Parallel > 0 {
		args = append(args, "--parallel", fmt.Sprintf("%d", config.Parallel))
	}

	cmd := exec.CommandContext(ctx, "cmake", args...)
	cmd.Env = buildEnv(config.Env)

	output, err := cmd.CombinedOutput()
	result.Output = append(result.Output, strings.Split(string(output), "\n")...)

	if config.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: cmake %s", strings.Join(args, " ")))
	}

	if err != nil {
		return buildError("CMake Build", result.Output, err)
	}
	return nil
}

// findArchives locates the static archives the build produced. CMake
// scatters library outputs depending on generator and project layout,
// so the whole build tree is walked.
func (b *CMakeBuilder) findArchives(buildDir string) ([]string, error) {
	var archives []string
	err := filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() && IsStaticArchive(d.Name()) {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s for archives: %w", buildDir, err)
	}
	return archives, nil
}

// getGenerator returns the appropriate CMake generator for the platform
func (b *CMakeBuilder) getGenerator() string {
	if generator := os.Getenv("CMAKE_GENERATOR"); generator != "" {
		return generator
	}

	switch runtime.GOOS {
	case platformWindows:
		return "Visual Studio 16 2019"
	default:
		return unixMakefiles
	}
}

// getMakeProgram returns the appropriate make program for the platform
func (b *CMakeBuilder) getMakeProgram() string {
	if makeOverride := os.Getenv("MAKE"); makeOverride != "" {
		return makeOverride
	}

	if runtime.GOOS == platformWindows {
		return nmakeProgram
	}
	return makeProgram
}

// RequiredTools returns the external tools the CMake workflow needs.
func (b *CMakeBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: "cmake", Purpose: "CMake build system"},
		{Name: makeProgram, Alternatives: []string{"gmake", "ninja", nmakeProgram}, Purpose: "build tool driven by CMake"},
	}
}

// CheckTools verifies that the required tools are available.
func (b *CMakeBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// buildEnv merges overrides into the process environment.
func buildEnv(overrides map[string]string) []string {
	env := os.Environ()
	for key, value := range overrides {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	return env
}

// buildError formats a build failure with the captured output so the
// cause is diagnosable from the error alone.
func buildError(tool string, output []string, err error) error {
	prefix := fmt.Sprintf("%s build failed", tool)
	if err != nil {
		prefix = fmt.Sprintf("%s: %v", prefix, err)
	}

	if outputStr := strings.Join(output, "\n"); strings.TrimSpace(outputStr) != "" {
		return fmt.Errorf("%s\n\nBuild output:\n%s", prefix, outputStr)
	}
	return fmt.Errorf("%s", prefix)
}
