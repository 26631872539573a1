package builtin

import (
	"testing"
)

type fakeJobManager struct {
	jobs           []JobView
	mostRecent     JobView
	hasMostRecent  bool
	mostStopped    JobView
	hasMostStopped bool
	fgCalls        []int
	bgCalls        []int
	fgErr, bgErr   error
}

func (f *fakeJobManager) Jobs() []JobView { return f.jobs }
func (f *fakeJobManager) MostRecentJob() (JobView, bool) {
	return f.mostRecent, f.hasMostRecent
}
func (f *fakeJobManager) MostRecentStoppedJob() (JobView, bool) {
	return f.mostStopped, f.hasMostStopped
}
func (f *fakeJobManager) Foreground(id int) error {
	f.fgCalls = append(f.fgCalls, id)
	return f.fgErr
}
func (f *fakeJobManager) Background(id int) error {
	f.bgCalls = append(f.bgCalls, id)
	return f.bgErr
}

func TestFgWithExplicitArg(t *testing.T) {
	fm := &fakeJobManager{}
	SetJobManager(fm)
	defer SetJobManager(nil)

	if err := fg([]string{"%3"}, nil); err != nil {
		t.Fatalf("fg: %v", err)
	}
	if len(fm.fgCalls) != 1 || fm.fgCalls[0] != 3 {
		t.Errorf("Foreground calls = %v, want [3]", fm.fgCalls)
	}
}

func TestFgWithNoArgUsesMostRecent(t *testing.T) {
	fm := &fakeJobManager{mostRecent: JobView{ID: 5}, hasMostRecent: true}
	SetJobManager(fm)
	defer SetJobManager(nil)

	if err := fg(nil, nil); err != nil {
		t.Fatalf("fg: %v", err)
	}
	if len(fm.fgCalls) != 1 || fm.fgCalls[0] != 5 {
		t.Errorf("Foreground calls = %v, want [5]", fm.fgCalls)
	}
}

func TestFgWithNoJobsDoesNothing(t *testing.T) {
	fm := &fakeJobManager{}
	SetJobManager(fm)
	defer SetJobManager(nil)

	if err := fg(nil, nil); err != nil {
		t.Fatalf("fg: %v", err)
	}
	if len(fm.fgCalls) != 0 {
		t.Errorf("Foreground calls = %v, want none", fm.fgCalls)
	}
}

func TestBgWithNoArgUsesMostRecentStopped(t *testing.T) {
	fm := &fakeJobManager{mostStopped: JobView{ID: 7}, hasMostStopped: true}
	SetJobManager(fm)
	defer SetJobManager(nil)

	if err := bg(nil, nil); err != nil {
		t.Fatalf("bg: %v", err)
	}
	if len(fm.bgCalls) != 1 || fm.bgCalls[0] != 7 {
		t.Errorf("Background calls = %v, want [7]", fm.bgCalls)
	}
}

func TestResolveJobArg(t *testing.T) {
	tests := []struct {
		args     []string
		wantID   int
		wantExpl bool
		wantErr  bool
	}{
		{nil, 0, false, false},
		{[]string{"%2"}, 2, true, false},
		{[]string{"3"}, 3, true, false},
		{[]string{"%notanumber"}, 0, true, true},
	}
	for _, tt := range tests {
		id, explicit, err := resolveJobArg(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveJobArg(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if id != tt.wantID || explicit != tt.wantExpl {
			t.Errorf("resolveJobArg(%v) = %d, %v, want %d, %v", tt.args, id, explicit, tt.wantID, tt.wantExpl)
		}
	}
}

type fakeHistoryStore struct {
	all         []string
	readPath    string
	writePath   string
	appendPath  string
	readCalled  bool
	writeCalled bool
}

func (f *fakeHistoryStore) All() []string { return f.all }
func (f *fakeHistoryStore) Last(n int) []string {
	if n <= 0 || n >= len(f.all) {
		return f.all
	}
	return f.all[len(f.all)-n:]
}
func (f *fakeHistoryStore) Read(path string) error {
	f.readPath = path
	f.readCalled = true
	return nil
}
func (f *fakeHistoryStore) Write(path string) error {
	f.writePath = path
	f.writeCalled = true
	return nil
}
func (f *fakeHistoryStore) Append(path string) error {
	f.appendPath = path
	return nil
}

func TestHistoryDispatchesFlags(t *testing.T) {
	fh := &fakeHistoryStore{all: []string{"one", "two", "three"}}
	SetHistory(fh)
	defer SetHistory(nil)

	if err := history([]string{"-r", "/tmp/histfile"}, nil); err != nil {
		t.Fatalf("history -r: %v", err)
	}
	if !fh.readCalled || fh.readPath != "/tmp/histfile" {
		t.Errorf("Read not called with expected path, got %q", fh.readPath)
	}

	if err := history([]string{"-w", "/tmp/histfile"}, nil); err != nil {
		t.Fatalf("history -w: %v", err)
	}
	if !fh.writeCalled || fh.writePath != "/tmp/histfile" {
		t.Errorf("Write not called with expected path, got %q", fh.writePath)
	}

	if err := history([]string{"-a", "/tmp/histfile"}, nil); err != nil {
		t.Fatalf("history -a: %v", err)
	}
	if fh.appendPath != "/tmp/histfile" {
		t.Errorf("Append not called with expected path, got %q", fh.appendPath)
	}
}

func TestHistoryListsAllByDefault(t *testing.T) {
	fh := &fakeHistoryStore{all: []string{"one", "two", "three"}}
	SetHistory(fh)
	defer SetHistory(nil)

	out := captureOutput(t, func() {
		history(nil, nil)
	})
	want := "    1  one\n    2  two\n    3  three\n"
	if out != want {
		t.Errorf("history output = %q, want %q", out, want)
	}
}

func TestHistoryWithCountLimitsToLastN(t *testing.T) {
	fh := &fakeHistoryStore{all: []string{"one", "two", "three"}}
	SetHistory(fh)
	defer SetHistory(nil)

	out := captureOutput(t, func() {
		history([]string{"2"}, nil)
	})
	want := "    2  two\n    3  three\n"
	if out != want {
		t.Errorf("history output = %q, want %q", out, want)
	}
}

func TestJobsListsEachJob(t *testing.T) {
	fm := &fakeJobManager{jobs: []JobView{
		{ID: 1, CommandText: "sleep 5", Background: true},
		{ID: 2, CommandText: "vim", Stopped: true},
	}}
	SetJobManager(fm)
	defer SetJobManager(nil)

	out := captureOutput(t, func() {
		jobs(nil, nil)
	})
	want := "[1]  Running             sleep 5 &\n[2]  Stopped             vim\n"
	if out != want {
		t.Errorf("jobs output = %q, want %q", out, want)
	}
}
