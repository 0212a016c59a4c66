package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/canopy-network/canopy-amm/cmd/rpc"
	"github.com/canopy-network/canopy-amm/lib"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rootCmd = &cobra.Command{
	Use:   "amm",
	Short: "the amm settlement and quote engine",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initialize()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(rpc.SoftwareVersion)
	},
}

var (
	client, config, l = &rpc.Client{}, lib.Config{}, lib.LoggerI(nil)
	DataDir           = ""
)

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(autoCompleteCmd)
	autoCompleteCmd.AddCommand(generateCompleteCmd)
	autoCompleteCmd.AddCommand(autoCompleteInstallCmd)
	rootCmd.PersistentFlags().StringVar(&DataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
}

// initialize() loads the configuration once the flags are parsed
func initialize() {
	config = InitializeDataDirectory(DataDir, lib.NewDefaultLogger())
	l = lib.NewLogger(lib.LoggerConfig{Level: config.GetLogLevel()}, config.DataDirPath)
	client = rpc.NewClient(config.RPCUrl, "")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start the quote rpc server",
	Run: func(cmd *cobra.Command, args []string) {
		Start()
	},
}

// Start() is the entrypoint of the quote server
func Start() {
	// initialize the metrics server
	metrics := lib.NewMetricsServer(config.MetricsConfig, l)
	// initialize the rpc server
	rpcServer := rpc.NewServer(config, metrics, l)
	// start the metrics server
	metrics.Start()
	// start the rpc server
	rpcServer.Start()
	// block until a kill signal is received
	waitForKill()
	// gracefully stop the rpc server
	rpcServer.Stop()
	// gracefully stop the metrics server
	metrics.Stop()
	// exit
	os.Exit(0)
}

// waitForKill() blocks until a kill signal is received
func waitForKill() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGABRT)
	// block until kill signal is received
	s := <-stop
	l.Infof("Exit command %s received", s)
}

// InitializeDataDirectory() populates the data directory with a default configuration if missing
func InitializeDataDirectory(dataDirPath string, log lib.LoggerI) (c lib.Config) {
	// make the data dir if missing
	if err := os.MkdirAll(dataDirPath, os.ModePerm); err != nil {
		log.Fatal(err.Error())
	}
	// make the config.json file if missing
	configFilePath := filepath.Join(dataDirPath, lib.ConfigFilePath)
	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		log.Infof("Creating %s file", lib.ConfigFilePath)
		if err = lib.DefaultConfig().WriteToFile(configFilePath); err != nil {
			log.Fatal(err.Error())
		}
	}
	// load the config object
	c, err := lib.NewConfigFromFile(configFilePath)
	if err != nil {
		log.Fatal(err.Error())
	}
	// set the data-directory
	c.DataDirPath = dataDirPath
	return
}

func writeToConsole(a any, err error) {
	if err != nil {
		l.Fatal(err.Error())
	}
	switch a.(type) {
	case int, uint32, uint64:
		p := message.NewPrinter(language.English)
		if _, err := p.Printf("%d\n", a); err != nil {
			l.Fatal(err.Error())
		}
	case string, *string:
		fmt.Println(a)
	default:
		s, err := lib.MarshalJSONIndentString(a)
		if err != nil {
			l.Fatal(err.Error())
		}
		fmt.Println(s)
	}
}

// AUTO COMPLETE CODE BELOW

var autoCompleteCmd = &cobra.Command{
	Use:   "auto-complete",
	Short: "auto-complete generation and installation (for zsh and bash)",
}

var autoCompleteInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "automatically installs shell completion",
	Run: func(cmd *cobra.Command, args []string) {
		shell := detectShell()
		c, ok := completionFor(shell)
		if !ok {
			writeToConsole(nil, errors.New("can't detect shell (only zsh or bash is supported)"))
			return
		}
		writeToConsole(fmt.Sprintf("Installing completion for: %s", shell), nil)
		if err := exec.Command("sh", "-c", c.installScript()).Run(); err != nil {
			writeToConsole(nil, fmt.Errorf("error setting up completion:, %s", err.Error()))
			return
		}
		writeToConsole(fmt.Sprintf("Completion installed. Restart your shell or run `source %s`", c.profile), nil)
	},
}

var generateCompleteCmd = &cobra.Command{
	Use:   "generate",
	Short: "generate completion script",
	Run: func(cmd *cobra.Command, args []string) {
		c, ok := completionFor(detectShell())
		if !ok {
			cmd.Println("Unsupported shell. Use: bash or zsh")
			return
		}
		_ = c.generate(os.Stdout)
	},
}

// completion describes where a shell keeps its completion script and which profile lines load it
type completion struct {
	generate     func(w io.Writer) error
	profile      string
	setup        string   // writes the generated script to disk
	profileLines []string // appended to the profile unless already present
}

func completionFor(shell string) (completion, bool) {
	switch shell {
	case "bash":
		return completion{
			generate:     rootCmd.GenBashCompletion,
			profile:      getBashProfile(),
			setup:        "amm auto-complete generate > ~/.amm-completion.sh",
			profileLines: []string{"source ~/.amm-completion.sh"},
		}, true
	case "zsh":
		return completion{
			generate:     rootCmd.GenZshCompletion,
			profile:      "~/.zshrc",
			setup:        "mkdir -p ~/.zsh/completions && amm auto-complete generate > ~/.zsh/completions/_amm",
			profileLines: []string{"fpath=(~/.zsh/completions $fpath)", "autoload -Uz compinit && compinit"},
		}, true
	default:
		return completion{}, false
	}
}

// installScript() runs the setup and appends each profile line only once
func (c completion) installScript() string {
	script := []string{c.setup}
	for _, line := range c.profileLines {
		script = append(script, fmt.Sprintf("grep -qF '%s' %s || echo '%s' >> %s", line, c.profile, line, c.profile))
	}
	return strings.Join(script, "\n")
}

func detectShell() string {
	shell := os.Getenv("SHELL")
	if strings.Contains(shell, "bash") {
		return "bash"
	} else if strings.Contains(shell, "zsh") {
		return "zsh"
	}
	return ""
}

func getBashProfile() string {
	if _, err := os.Stat(os.Getenv("HOME") + "/.bashrc"); err == nil {
		return "~/.bashrc"
	}
	return "~/.bash_profile"
}
