package task

import (
	"errors"
	"fmt"
)

// ErrDeclined is returned when the user refuses a required prompt.
var ErrDeclined = errors.New("declined by user")

// IssuesURL is where users report setup problems.
const IssuesURL = "https://github.com/pytorch/live/issues"

// InstallerMitigation renders the standard remediation text for a failed
// installer whose package can be installed manually from link.
func InstallerMitigation(description, link string) string {
	return fmt.Sprintf(`💥 Installation of %s failed because of the error reported above.

Please address the reported error. Alternatively, install the package manually from %s.

Then run 'torchlive setup-dev' again to continue the setup.

If you still run into the issue, please visit %s to search for similar issues or to report yours.`, description, link, IssuesURL)
}

// RequireConsent asks the user to accept licenseLink before installing
// description. Declining stops the installation.
func RequireConsent(tc *Context, description, licenseLink string) error {
	ok, err := tc.Prompter.Confirm(fmt.Sprintf(`You must accept the following license agreement to continue installing %s.

%s.

Do you accept the license?`, description, licenseLink))
	if err != nil {
		return fmt.Errorf("license prompt for %s: %w", description, err)
	}
	if !ok {
		return fmt.Errorf("stopping installation of %s, accepting the license agreement is required: %w", description, ErrDeclined)
	}
	tc.Update("Accepted licenses agreement")
	return nil
}
