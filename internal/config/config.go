// Package config reads server settings from the environment, optionally
// overridden by a Lua file named in GALACTIC_CONFIG.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

type Config struct {
	Port         string
	Origins      []string
	ScoreboardDB string
	CommandRate  float64 // commands per second per connection
	CommandBurst int
}

// Load builds the config from the process environment and, when
// GALACTIC_CONFIG is set, the Lua file it points to.
func Load() (Config, error) {
	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return cfg, err
	}
	if path := os.Getenv("GALACTIC_CONFIG"); path != "" {
		if err := LoadLua(path, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// FromEnv reads the settings through getenv, applying defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}

	cfg := Config{
		Port:         get("PORT", "8080"),
		ScoreboardDB: get("SCOREBOARD_DB", "./data/scoreboard.db"),
	}
	cfg.Origins = splitOrigins(get("ORIGIN_ALLOWLIST", "http://localhost:"+cfg.Port+",http://127.0.0.1:"+cfg.Port))

	r, err := strconv.ParseFloat(get("COMMAND_RATE", "5"), 64)
	if err != nil {
		return cfg, fmt.Errorf("COMMAND_RATE: %w", err)
	}
	cfg.CommandRate = r
	b, err := strconv.Atoi(get("COMMAND_BURST", "10"))
	if err != nil {
		return cfg, fmt.Errorf("COMMAND_BURST: %w", err)
	}
	cfg.CommandBurst = b
	return cfg, nil
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LoadLua runs the script at path and copies any of the globals port,
// origins, scoreboard_db, command_rate and command_burst into cfg.
func LoadLua(path string, cfg *Config) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	if v := L.GetGlobal("port"); v != lua.LNil {
		switch p := v.(type) {
		case lua.LNumber:
			cfg.Port = strconv.Itoa(int(p))
		case lua.LString:
			cfg.Port = string(p)
		default:
			return fmt.Errorf("config %s: port must be a number or string, got %s", path, v.Type())
		}
	}
	if v := L.GetGlobal("origins"); v != lua.LNil {
		tbl, ok := v.(*lua.LTable)
		if !ok {
			return fmt.Errorf("config %s: origins must be a table, got %s", path, v.Type())
		}
		origins := make([]string, 0, tbl.Len())
		for i := 1; i <= tbl.Len(); i++ {
			s, ok := tbl.RawGetInt(i).(lua.LString)
			if !ok {
				return fmt.Errorf("config %s: origins[%d] must be a string", path, i)
			}
			origins = append(origins, string(s))
		}
		cfg.Origins = origins
	}
	if v := L.GetGlobal("scoreboard_db"); v != lua.LNil {
		s, ok := v.(lua.LString)
		if !ok {
			return fmt.Errorf("config %s: scoreboard_db must be a string, got %s", path, v.Type())
		}
		cfg.ScoreboardDB = string(s)
	}
	if v := L.GetGlobal("command_rate"); v != lua.LNil {
		n, ok := v.(lua.LNumber)
		if !ok {
			return fmt.Errorf("config %s: command_rate must be a number, got %s", path, v.Type())
		}
		cfg.CommandRate = float64(n)
	}
	if v := L.GetGlobal("command_burst"); v != lua.LNil {
		n, ok := v.(lua.LNumber)
		if !ok {
			return fmt.Errorf("config %s: command_burst must be a number, got %s", path, v.Type())
		}
		cfg.CommandBurst = int(n)
	}
	return nil
}
