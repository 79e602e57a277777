package policy

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/logger"
)

// Marshal renders the policy as TOML.
func (p *Policy) Marshal() ([]byte, error) {
	data, err := toml.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal policy")
	}
	return data, nil
}

// Save writes the policy as TOML, rotating up to three backups of an
// existing file (.back1 newest).
func Save(p *Policy, path string) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write policy %s", path)
	}
	return nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before
// overwriting a policy file
func createBackup(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	back3 := path + ".back3"
	back2 := path + ".back2"
	back1 := path + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old policy backup",
			logger.FieldFile, back3,
			logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read policy for backup")
	}
	if err := os.WriteFile(back1, content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
