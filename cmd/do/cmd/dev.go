package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	var port, proxyPort string
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the server under air, rebuilding CSS and Go on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, proxyPort)
		},
	}
	cmd.Flags().StringVar(&port, "port", "8090", "port the server listens on")
	cmd.Flags().StringVar(&proxyPort, "proxy-port", "8080", "port of the live-reload proxy")
	return cmd
}

func runDev(port, proxyPort string) error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return fmt.Errorf("air not found")
	}

	// Templates, pages and migrations are embedded, so any of them needs a rebuild
	airArgs := []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "go run ./cmd/do gen && go build -o ./tmp/server ./cmd/server",
		"-build.bin", "./tmp/server",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,node_modules,tmp,data",
		"-build.exclude_regex", "_test.go$|output\\.css$",
		"-build.include_ext", "go,html,md,css,sql",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
		"-proxy.enabled", "true",
		"-proxy.proxy_port", proxyPort,
		"-proxy.app_port", port,
	}

	env := append(os.Environ(), "PORT="+port, "APP_URL=http://localhost:"+proxyPort)
	return syscall.Exec(airPath, airArgs, env)
}
