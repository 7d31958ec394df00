package config

import "testing"

func TestParseConfig(t *testing.T) {
	data := []byte(`
aliases:
  regs: ["r"]
  modules: ["lm", "mods"]
symbol-path: "srv*c:\\symbols"
startup-commands:
  - ".symopt+0x40"
  - ".echo ready"
max-dump-bytes: 256
prompt-color: 34
`)
	c, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Aliases) != 2 {
		t.Errorf("got %d aliases", len(c.Aliases))
	}
	if got := c.Aliases["modules"]; len(got) != 2 || got[0] != "lm" {
		t.Errorf("modules aliases = %v", got)
	}
	if c.SymbolPath != `srv*c:\symbols` {
		t.Errorf("symbol-path = %q", c.SymbolPath)
	}
	if len(c.StartupCommands) != 2 || c.StartupCommands[1] != ".echo ready" {
		t.Errorf("startup-commands = %v", c.StartupCommands)
	}
	if c.MaxDump() != 256 {
		t.Errorf("MaxDump() = %d", c.MaxDump())
	}
	if c.PromptColor != 34 {
		t.Errorf("prompt-color = %d", c.PromptColor)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	if _, err := ParseConfig([]byte("aliases: [not a map]")); err == nil {
		t.Error("invalid document should not parse")
	}
}

func TestMaxDumpDefault(t *testing.T) {
	c := &Config{}
	if c.MaxDump() != DefaultMaxDumpBytes {
		t.Errorf("MaxDump() = %d", c.MaxDump())
	}
	zero := 0
	c.MaxDumpBytes = &zero
	if c.MaxDump() != DefaultMaxDumpBytes {
		t.Errorf("MaxDump() with zero = %d", c.MaxDump())
	}
}
