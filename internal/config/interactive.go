// Package config - Interactive settings generation
package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
)

// GenerateInteractive asks for the main settings on in, echoing prompts to
// out, and saves the result to configPath.
func GenerateInteractive(in io.Reader, out io.Writer, configPath string) (*Config, error) {
	fmt.Fprintln(out, "cmdmenu Configuration Setup")
	fmt.Fprintln(out, "===========================")
	fmt.Fprintln(out)

	config := DefaultConfig()
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "Menu file [%s]: ", config.MenuFile)
	if menuFile := readLine(reader); menuFile != "" {
		config.MenuFile = menuFile
	}

	fmt.Fprintf(out, "Shell [%s]: ", config.Shell)
	if shell := readLine(reader); shell != "" {
		config.Shell = shell
	}

	fmt.Fprintf(out, "Command timeout, 0s to wait forever [%s]: ", config.Timeout)
	if timeout := readLine(reader); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			fmt.Fprintf(out, "Invalid duration %q, keeping %s\n", timeout, config.Timeout)
		} else {
			config.Timeout = d
		}
	}

	fmt.Fprintf(out, "User switching (auto/sudo/su/credential) [%s]: ", config.Impersonation.Method)
	if method := readLine(reader); method != "" {
		config.Impersonation.Method = strings.ToLower(method)
	}

	fmt.Fprintf(out, "Front end (text/tree) [%s]: ", config.UI.Mode)
	if mode := readLine(reader); mode != "" {
		config.UI.Mode = strings.ToLower(mode)
	}

	fmt.Fprint(out, "Confirm risky commands? [Y/n]: ")
	if confirm := readLine(reader); strings.EqualFold(confirm, "n") {
		config.ConfirmRisky = false
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ConfigInvalid, "Configuration not saved")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration Summary")
	fmt.Fprintln(out, "---------------------")
	fmt.Fprintf(out, "• Menu file: %s\n", config.MenuFile)
	fmt.Fprintf(out, "• Shell: %s\n", config.Shell)
	fmt.Fprintf(out, "• Timeout: %s\n", config.Timeout)
	fmt.Fprintf(out, "• User switching: %s\n", config.Impersonation.Method)
	fmt.Fprintf(out, "• Front end: %s\n", config.UI.Mode)
	fmt.Fprintf(out, "• Config path: %s\n", configPath)
	fmt.Fprintln(out)

	fmt.Fprint(out, "Save this configuration? [Y/n]: ")
	if confirm := readLine(reader); confirm != "" && !strings.EqualFold(confirm, "y") {
		return nil, errors.New(errors.ConfigInvalid, "Configuration not saved")
	}

	if err := Save(config, configPath); err != nil {
		return nil, err
	}
	config.ConfigPath = configPath

	fmt.Fprintf(out, "Configuration saved to: %s\n", configPath)
	return config, nil
}

// readLine reads a line from the reader, trimming whitespace. End of input
// reads as an empty answer so defaults apply.
func readLine(reader *bufio.Reader) string {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}

	trimmed := strings.TrimSpace(line)
	if !utf8.ValidString(trimmed) {
		trimmed = strings.ToValidUTF8(trimmed, "�")
	}
	return trimmed
}
