package main

// Short messages (one-liners)
const (
	MsgRootShort = "A structured dotfiles manager"
	MsgRootLong  = `tuck keeps your configuration files in a structured dotfiles directory
and deploys them as symlinks into your home, letting git handle versioning
and history.

The dotfiles directory holds three managed trees:
  Configs/<group>/...  files symlinked into your home
  Hooks/<group>/...    scripts run around linking (tuck set)
  Secrets/<group>/...  passphrase-encrypted files`

	MsgStatusShort    = "Show which groups are linked, pending or conflicting"
	MsgAddShort       = "Symlink groups into your home directory"
	MsgRmShort        = "Remove the symlinks of groups"
	MsgSetShort       = "Run hooks and symlink groups"
	MsgInitShort      = "Create the dotfiles directory layout"
	MsgPushShort      = "Copy files from your home into a group"
	MsgPopShort       = "Delete groups from the dotfiles directory"
	MsgLsHooksShort   = "List groups with hook scripts"
	MsgLsSecretsShort = "List encrypted groups"
	MsgGroupIsShort   = "Show which group owns the given files"
	MsgFromStowShort  = "Convert a stow layout into a tuck one"
	MsgEncryptShort   = "Encrypt files into a secrets group"
	MsgDecryptShort   = "Decrypt secrets groups"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDir       = "Dotfiles directory to operate on"
	MsgFlagExclude   = "Exclude groups from the operation"
	MsgFlagForce     = "Remove conflicting files before linking"
	MsgFlagAdopt     = "Move conflicting files into the dotfiles directory before linking"
	MsgFlagDecryptTo = "Directory to decrypt into (default: current directory)"

	// Status messages
	MsgEmptyDotfiles    = "No dotfiles found. Add groups under %s and run `tuck status` again.\n"
	MsgHooksPrompt      = "Run hook scripts for %s? [y/N] "
	MsgHooksDeclined    = "Aborted. Set hooks.allow in tuck.toml to skip this prompt."
	MsgPasswordPrompt   = "Password: "
	MsgPasswordConfirm  = "Confirm password: "
	MsgPasswordMismatch = "passwords do not match"
)
