package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stylelens/stylelens/internal/live"
	"github.com/stylelens/stylelens/internal/session"
	"github.com/stylelens/stylelens/internal/tui"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Analyze your outfit live from the camera",
	Long: `Run a live style check: frames are captured from the camera on an
interval and analyzed as your outfit changes. Unchanged frames are not
re-analyzed, and a slow analysis never stacks up behind the next frame.

Press q to stop.

Examples:
  stylelens live
  stylelens live --device /dev/video2 --interval 10s
  stylelens live --frames look1.jpg,look2.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if err := requireFeature(a, session.FeatureLive); err != nil {
			return err
		}

		device, _ := cmd.Flags().GetString("device")
		if device == "" {
			device = a.Config.CaptureDevice
		}
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval == 0 {
			interval = a.Config.LiveInterval
		}
		frames, _ := cmd.Flags().GetStringSlice("frames")

		var source live.FrameSource
		label := device
		if len(frames) > 0 {
			source = live.NewFileSource(frames...)
			label = "files"
		} else {
			source = live.NewCameraSource(device)
		}

		var program *tea.Program

		runner, err := live.NewRunner(live.RunnerConfig{
			Source:   source,
			Analyzer: a.Client,
			Interval: interval,
			Logger:   a.Logger,
			OnResult: func(r live.Result) {
				if program != nil {
					program.Send(tui.LiveResultMsg{
						Analysis: r.Analysis,
						Skipped:  r.Skipped,
						Err:      r.Err,
						At:       r.At,
					})
				}
			},
		})
		if err != nil {
			return err
		}

		program = tea.NewProgram(tui.NewLiveModel(label, func() {
			go runner.Stop()
		}))

		loopErr := make(chan error, 1)
		go func() {
			err := runner.Start(cmd.Context())
			loopErr <- err
			program.Send(tui.LiveStoppedMsg{Err: err})
		}()

		if _, err := program.Run(); err != nil {
			runner.Stop()
			<-loopErr
			return err
		}
		return <-loopErr
	},
}

func init() {
	rootCmd.AddCommand(liveCmd)

	liveCmd.Flags().String("device", "", "Capture device (defaults to the configured camera)")
	liveCmd.Flags().Duration("interval", 0, "Delay between frames (defaults to the configured interval)")
	liveCmd.Flags().StringSlice("frames", nil, "Analyze image files instead of the camera")
}
