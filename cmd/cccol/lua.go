package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	lua "github.com/yuin/gopher-lua"

	"cccolutils"
)

// LuaEngine runs transition scripts. Each run gets a fresh Lua state with
// the cccol module and a ctx table describing the realm.
type LuaEngine struct {
	client *cccolutils.Client
}

// NewLuaEngine creates an engine whose cccol.* functions query client
func NewLuaEngine(client *cccolutils.Client) *LuaEngine {
	if client == nil {
		client = cccolutils.New(nil)
	}
	return &LuaEngine{client: client}
}

// RunScript executes a Lua script file with optional context variables
func (e *LuaEngine) RunScript(scriptName string, context map[string]string) (string, error) {
	scriptPath := ScriptPath(scriptName)

	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		return "", fmt.Errorf("script not found: %s", scriptPath)
	}

	L := lua.NewState()
	defer L.Close()

	e.registerModule(L)

	ctx := L.NewTable()
	for k, v := range context {
		L.SetField(ctx, k, lua.LString(v))
	}
	L.SetGlobal("ctx", ctx)
	L.SetGlobal("result", lua.LNil)

	if err := L.DoFile(scriptPath); err != nil {
		return "", fmt.Errorf("script error: %w", err)
	}

	if result := L.GetGlobal("result"); result != lua.LNil {
		return result.String(), nil
	}
	return "", nil
}

// RunForState runs scriptName for a watcher observation
func (e *LuaEngine) RunForState(scriptName string, prev, cur RealmState, first bool) (string, error) {
	ctx := map[string]string{
		"name":          cur.Name,
		"realm":         cur.Realm,
		"authenticated": fmt.Sprint(cur.Authenticated),
		"username":      cur.Username,
		"first":         fmt.Sprint(first),
	}
	if !first {
		ctx["was_authenticated"] = fmt.Sprint(prev.Authenticated)
		ctx["was_username"] = prev.Username
	}
	return e.RunScript(scriptName, ctx)
}

func (e *LuaEngine) registerModule(L *lua.LState) {
	mod := L.NewTable()

	// Credential cache queries
	L.SetField(mod, "has_credentials", L.NewFunction(e.luaHasCredentials))
	L.SetField(mod, "has_credentials_for_realm", L.NewFunction(e.luaHasCredentialsForRealm))
	L.SetField(mod, "username_for_realm", L.NewFunction(e.luaUsernameForRealm))

	// Shell execution
	L.SetField(mod, "exec", L.NewFunction(luaExec))
	L.SetField(mod, "shell", L.NewFunction(luaShell))

	// Utility functions
	L.SetField(mod, "sleep", L.NewFunction(luaSleep))
	L.SetField(mod, "env", L.NewFunction(luaEnv))
	L.SetField(mod, "log", L.NewFunction(luaLog))

	L.SetGlobal("cccol", mod)
}

// luaHasCredentials: cccol.has_credentials() -> bool
func (e *LuaEngine) luaHasCredentials(L *lua.LState) int {
	L.Push(lua.LBool(e.client.HasCredentials()))
	return 1
}

// luaHasCredentialsForRealm: cccol.has_credentials_for_realm(realm) -> bool, error
func (e *LuaEngine) luaHasCredentialsForRealm(L *lua.LState) int {
	ok, err := e.client.HasCredentialsForRealm(L.CheckString(1))
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LBool(ok))
	return 1
}

// luaUsernameForRealm: cccol.username_for_realm(realm) -> name|nil, error
func (e *LuaEngine) luaUsernameForRealm(L *lua.LState) int {
	name, ok, err := e.client.UsernameForRealm(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(name))
	return 1
}

// luaExec executes a command and returns output: cccol.exec(cmd, args...) -> output, error
func luaExec(L *lua.LState) int {
	cmdName := L.CheckString(1)
	var args []string
	for i := 2; i <= L.GetTop(); i++ {
		args = append(args, L.CheckString(i))
	}

	output, err := exec.Command(cmdName, args...).CombinedOutput()
	L.Push(lua.LString(string(output)))
	if err != nil {
		L.Push(lua.LString(err.Error()))
		return 2
	}
	return 1
}

// luaShell executes a shell command: cccol.shell(command) -> output, error
func luaShell(L *lua.LState) int {
	command := L.CheckString(1)

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}

	output, err := cmd.CombinedOutput()
	L.Push(lua.LString(string(output)))
	if err != nil {
		L.Push(lua.LString(err.Error()))
		return 2
	}
	return 1
}

// luaSleep pauses execution: cccol.sleep(milliseconds)
func luaSleep(L *lua.LState) int {
	time.Sleep(time.Duration(L.CheckInt(1)) * time.Millisecond)
	return 0
}

// luaEnv gets an environment variable: cccol.env(name) -> value
func luaEnv(L *lua.LState) int {
	L.Push(lua.LString(os.Getenv(L.CheckString(1))))
	return 1
}

// luaLog writes to the cccol log: cccol.log(message)
func luaLog(L *lua.LState) int {
	LogInfo("[Lua] %s", L.CheckString(1))
	return 0
}
