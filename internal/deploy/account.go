package deploy

import (
	"context"
	"errors"
	"fmt"
	"os/user"
	"strconv"

	"github.com/soverxos/swiftdevbot-deploy/internal/logger"
)

// nologinShell prevents interactive logins for the service account.
const nologinShell = "/usr/sbin/nologin"

// EnsureSystemUser guarantees that the dedicated, non-interactive service
// account exists. An already-existing account is a soft no-op. The account is
// host-global state, so creation goes through this ensure operation rather
// than an imperative create call.
func EnsureSystemUser(ctx context.Context, r CommandRunner, name string) error {
	_, err := user.Lookup(name)
	if err == nil {
		logger.InfoKV(ctx, "Service account already exists", "user", name)
		return nil
	}

	var unknown user.UnknownUserError
	if !errors.As(err, &unknown) {
		return fmt.Errorf("look up user %s: %w", name, err)
	}

	logger.InfoKV(ctx, "Creating service account", "user", name)

	err = r.Run(ctx, "useradd",
		"--system",
		"--no-create-home",
		"--shell", nologinShell,
		name)
	if err != nil {
		return fmt.Errorf("create user %s: %w", name, err)
	}

	return nil
}

// LookupOwner resolves the numeric uid and gid of the given account.
func LookupOwner(name string) (uid, gid int, err error) {
	account, err := user.Lookup(name)
	if err != nil {
		return 0, 0, fmt.Errorf("look up user %s: %w", name, err)
	}

	if uid, err = strconv.Atoi(account.Uid); err != nil {
		return 0, 0, fmt.Errorf("parse uid %q: %w", account.Uid, err)
	}

	if gid, err = strconv.Atoi(account.Gid); err != nil {
		return 0, 0, fmt.Errorf("parse gid %q: %w", account.Gid, err)
	}

	return uid, gid, nil
}
