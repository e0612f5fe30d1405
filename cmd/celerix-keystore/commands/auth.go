package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// terminalAuthenticator asks the user to confirm each challenge on the
// terminal. Anything but "y" or "yes" declines.
func terminalAuthenticator(in io.Reader, out io.Writer, assumeYes bool) keychain.Authenticator {
	reader := bufio.NewReader(in)
	return keychain.AuthenticatorFunc(func(ctx context.Context, prompt string, _ keychain.AccessControlFlags) error {
		if assumeYes {
			return nil
		}
		if prompt == "" {
			prompt = "Access protected keystore entry"
		}
		fmt.Fprintf(out, "%s %s [y/N]: ", warnFmt("?"), prompt)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return keychain.ErrChallengeDeclined
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return nil
		default:
			return keychain.ErrChallengeDeclined
		}
	})
}
