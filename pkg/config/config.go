// Package config manages the gistfs configuration file and the small amount
// of persisted user state: the GitHub token, the list of followed users, the
// list of explicitly opened gists, and the sort preferences of the listing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Filename is the default configuration filename that gistfs searches for.
const Filename = ".gistfs"

// Paths is the list of directories used to search for a configuration file.
var Paths = []string{
	"$HOME",
	".",
}

const (
	keyToken         = "github.token"
	keyFollowedUsers = "followed_users"
	keyOpenedGists   = "opened_gists"
	keySortType      = "sort.type"
	keySortDirection = "sort.direction"
	keyLogLevel      = "log.level"
)

// ErrNoConfigFile is returned when a write is requested but no configuration
// file location could be determined.
var ErrNoConfigFile = errors.New("config: no configuration file")

// Setup initializes viper with the given configuration file, or with the
// default search paths when cfgFile is empty. A missing configuration file is
// not an error: everything has a default and the file is created on the first
// write.
func Setup(cfgFile string) error {
	viper.SetEnvPrefix("gistfs")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(keySortType, "name")
	viper.SetDefault(keySortDirection, "asc")
	viper.SetDefault(keyLogLevel, "info")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(Filename)
		viper.SetConfigType("yaml")
		for _, p := range Paths {
			viper.AddConfigPath(p)
		}
	}

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: could not read configuration: %w", err)
	}
	return nil
}

func save() error {
	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ErrNoConfigFile
	}
	return viper.WriteConfigAs(filepath.Join(home, Filename+".yaml"))
}

// Token returns the GitHub access token.
func Token() string { return viper.GetString(keyToken) }

// SetToken persists the GitHub access token.
func SetToken(token string) error {
	viper.Set(keyToken, token)
	return save()
}

// LogLevel returns the configured logger level.
func LogLevel() string { return viper.GetString(keyLogLevel) }

// FollowedUsers returns the list of followed user logins.
func FollowedUsers() []string { return viper.GetStringSlice(keyFollowedUsers) }

// AddFollowedUser adds a login to the followed users and persists the list.
// Adding an already followed user is a no-op.
func AddFollowedUser(login string) error {
	users := FollowedUsers()
	for _, u := range users {
		if strings.EqualFold(u, login) {
			return nil
		}
	}
	viper.Set(keyFollowedUsers, append(users, login))
	return save()
}

// RemoveFollowedUser removes a login from the followed users. The comparison
// is case-insensitive, like GitHub logins.
func RemoveFollowedUser(login string) error {
	users := FollowedUsers()
	kept := users[:0]
	for _, u := range users {
		if !strings.EqualFold(u, login) {
			kept = append(kept, u)
		}
	}
	viper.Set(keyFollowedUsers, append([]string{}, kept...))
	return save()
}

// OpenedGists returns the ids of the gists explicitly opened by the user.
func OpenedGists() []string { return viper.GetStringSlice(keyOpenedGists) }

// OpenGist records a gist id in the opened list.
func OpenGist(id string) error {
	ids := OpenedGists()
	for _, i := range ids {
		if i == id {
			return nil
		}
	}
	viper.Set(keyOpenedGists, append(ids, id))
	return save()
}

// CloseGist removes a gist id from the opened list.
func CloseGist(id string) error {
	ids := OpenedGists()
	kept := ids[:0]
	for _, i := range ids {
		if i != id {
			kept = append(kept, i)
		}
	}
	viper.Set(keyOpenedGists, append([]string{}, kept...))
	return save()
}

// SortType returns the persisted sort type of the gists listing.
func SortType() string { return viper.GetString(keySortType) }

// SortDirection returns the persisted sort direction of the gists listing.
func SortDirection() string { return viper.GetString(keySortDirection) }

// SetSort persists the sort preferences of the gists listing.
func SetSort(sortType, direction string) error {
	viper.Set(keySortType, sortType)
	viper.Set(keySortDirection, direction)
	return save()
}
