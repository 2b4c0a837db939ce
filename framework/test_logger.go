package framework

// TestLogger receives progress notifications for each test as the tree is run.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestWarning(id TestID, message string)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestWarning(TestID, string)                {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}
