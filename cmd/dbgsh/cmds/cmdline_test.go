package cmds

import "testing"

func TestWindowsCmdline(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want string
	}{
		{[]string{"notepad.exe"}, "notepad.exe"},
		{[]string{"notepad.exe", "file.txt"}, "notepad.exe file.txt"},
		{[]string{`C:\Program Files\app.exe`, "-v"}, `"C:\Program Files\app.exe" -v`},
		{[]string{"app.exe", "two\twords"}, `app.exe "two	words"`},
	} {
		if got := windowsCmdline(tc.args); got != tc.want {
			t.Errorf("windowsCmdline(%q) = %q, want %q", tc.args, got, tc.want)
		}
	}
}
