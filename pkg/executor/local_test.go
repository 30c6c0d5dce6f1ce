package executor

import (
	"bufio"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// TestLocal tests the execution of processes on the local machine.
func TestLocal(t *testing.T) {
	Convey("While using the Local executor", t, func() {
		l := NewLocal()

		Convey("When a blocking sleep command is executed", func() {
			task, err := l.Execute("sleep 60")
			So(err, ShouldBeNil)

			Convey("The task should be running and ExitCode should error", func() {
				So(task.Status(), ShouldEqual, RUNNING)

				_, exitErr := task.ExitCode()
				So(exitErr, ShouldNotBeNil)

				So(task.Stop(), ShouldBeNil)
				So(task.EraseOutput(), ShouldBeNil)
			})

			Convey("Waiting with a short timeout should report it as still running", func() {
				So(task.Wait(time.Millisecond), ShouldBeFalse)
				So(task.Status(), ShouldEqual, RUNNING)

				So(task.Stop(), ShouldBeNil)
				So(task.EraseOutput(), ShouldBeNil)
			})

			Convey("Stopping it should terminate the process group with a signal code", func() {
				So(task.Stop(), ShouldBeNil)
				So(task.Status(), ShouldEqual, TERMINATED)

				exitCode, exitErr := task.ExitCode()
				So(exitErr, ShouldBeNil)
				// SIGTERM surfaces as a negative code.
				So(exitCode, ShouldEqual, -15)

				So(task.EraseOutput(), ShouldBeNil)
			})
		})

		Convey("When the command `echo output` is executed and we wait for it", func() {
			task, err := l.Execute("echo output")
			So(err, ShouldBeNil)

			So(task.Wait(0), ShouldBeTrue)
			So(task.Status(), ShouldEqual, TERMINATED)

			Convey("The exit code should be zero and stdout should contain the output", func() {
				exitCode, exitErr := task.ExitCode()
				So(exitErr, ShouldBeNil)
				So(exitCode, ShouldEqual, 0)

				stdoutFile, stdoutErr := task.StdoutFile()
				So(stdoutErr, ShouldBeNil)

				scanner := bufio.NewScanner(stdoutFile)
				So(scanner.Scan(), ShouldBeTrue)
				So(scanner.Text(), ShouldEqual, "output")

				So(task.EraseOutput(), ShouldBeNil)
			})
		})

		Convey("When the command `exit 5` is executed and we wait for it", func() {
			task, err := l.Execute("exit 5")
			So(err, ShouldBeNil)

			So(task.Wait(0), ShouldBeTrue)

			Convey("The exit code should be 5", func() {
				exitCode, exitErr := task.ExitCode()
				So(exitErr, ShouldBeNil)
				So(exitCode, ShouldEqual, 5)

				So(task.EraseOutput(), ShouldBeNil)
			})
		})

		Convey("When a nonexistent binary is executed", func() {
			task, err := l.Execute("/definitely/not/here")
			So(err, ShouldBeNil)

			So(task.Wait(0), ShouldBeTrue)

			Convey("The shell should report command-not-found", func() {
				exitCode, exitErr := task.ExitCode()
				So(exitErr, ShouldBeNil)
				So(exitCode, ShouldEqual, 127)

				So(task.EraseOutput(), ShouldBeNil)
			})
		})
	})
}
