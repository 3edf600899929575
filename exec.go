package infmirror

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/infmirror/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Ops holds the input and output locations of an execution.
// Src can be an image file, a directory, an URL or the pipe name.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
	Quiet              bool
}

// result holds the relevant information about the rendering process and the generated image.
type result struct {
	path string
	err  error
}

// Supported files
var validExtensions = []string{".jpg", ".png", ".jpeg", ".bmp", ".gif"}

// Execute renders the source described by op. Directories are processed
// recursively by a pool of workers, each file being written into the destination directory.
func (p *Processor) Execute(op *Ops) error {
	var (
		fs  os.FileInfo
		err error
	)
	// The cascade is loaded once, before the workers start sharing the processor.
	if p.FaceDetect && p.FaceDetector == nil {
		if p.FaceDetector, err = LoadCascade(p.CascadePath); err != nil {
			return err
		}
	}

	src := op.Src
	// Check if source path is a local image or URL.
	if utils.IsValidUrl(op.Src) {
		f, err := utils.DownloadImage(op.Src)
		if f != nil {
			defer os.Remove(f.Name())
			defer f.Close()
		}
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		src = f.Name()
	}

	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		var wg sync.WaitGroup
		// Read destination file or directory.
		if _, err := os.Stat(op.Dst); err != nil {
			if err := os.MkdirAll(op.Dst, 0755); err != nil {
				return fmt.Errorf("unable to create the destination directory: %w", err)
			}
		}

		// Limit the concurrently running workers to maxWorkers.
		workers := op.Workers
		if workers <= 0 || workers > maxWorkers {
			workers = runtime.NumCPU()
		}

		// Process recursively the image files from the specified directory concurrently.
		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, src, validExtensions)

		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				op.consumer(p, op.newSpinner(), op.Dst, ch, done, paths)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		// Consume the channel values.
		var failed int
		for res := range ch {
			if res.err != nil {
				failed++
			}
			op.printOpStatus(res.path, res.err)
		}

		if err := <-errc; err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d image(s) could not be rendered", failed)
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		ext := strings.ToLower(filepath.Ext(op.Dst))
		if !utils.Contains(validExtensions, ext) && op.Dst != op.PipeName {
			return fmt.Errorf("%v file type not supported", ext)
		}
		if ext == ".gif" {
			return errors.New("gif is supported only as input format")
		}

		if err := op.process(p, op.newSpinner(), src, op.Dst); err != nil {
			op.printOpStatus(op.Dst, err)
			return err
		}
		op.printOpStatus(op.Dst, nil)

	default:
		return fmt.Errorf("unsupported source: %s", op.Src)
	}

	if !op.Quiet {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
			utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
		)
	}
	return nil
}

// newSpinner returns the progress indicator of a single worker.
func (op *Ops) newSpinner() *utils.Spinner {
	msg := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ INFMIRROR", utils.StatusMessage),
		utils.DecorateText("⇢ rendering the reflections...", utils.DefaultMessage),
	)
	s := utils.NewSpinner(msg, time.Millisecond*80, true)
	if op.Quiet {
		s.SetWriter(io.Discard)
	}
	return s
}

// consumer reads the path names from the paths channel and renders each source image.
// The spinner is owned by the consumer.
func (op *Ops) consumer(
	p *Processor,
	sp *utils.Spinner,
	dest string,
	res chan<- result,
	done <-chan interface{},
	paths <-chan string,
) {
	for src := range paths {
		name := filepath.Base(src)
		if strings.EqualFold(filepath.Ext(name), ".gif") {
			name = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
		}
		err := op.process(p, sp, src, filepath.Join(dest, name))

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

// process renders a single image and returns the error in case exists.
// The processor is only read, so it can be shared between workers.
func (op *Ops) process(p *Processor, sp *utils.Spinner, in, out string) error {
	// Start the progress indicator.
	sp.Start()

	successMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ INFMIRROR", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the image has been rendered successfully ✔", utils.SuccessMessage),
	)

	errorMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ INFMIRROR", utils.StatusMessage),
		utils.DecorateText("rendering the image failed...", utils.DefaultMessage),
		utils.DecorateText("✘", utils.ErrorMessage),
	)

	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		sp.StopWithMsg(errorMsg)
		return err
	}

	// Capture CTRL-C signal and restores back the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-finished:
			return
		case <-signalChan:
		}
		sp.RestoreCursor()
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			os.Remove(f.Name())
		}
		os.Exit(1)
	}()

	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			if err := f.Close(); err != nil {
				log.Printf("could not close the opened file: %v", err)
			}
		}
	}()

	err = p.Process(src, dst)

	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			// remove the generated image file in case of an error
			os.Remove(f.Name())
		}
	}

	if err != nil {
		// Stop the progress indicator.
		sp.StopWithMsg(errorMsg)
		return err
	}
	sp.StopWithMsg(successMsg)

	return nil
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %v", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, fmt.Errorf("unable to create the destination file: %v", err)
		}
	}
	return src, dst, nil
}

// printOpStatus displays the relevant information about the rendering process.
func (op *Ops) printOpStatus(fname string, err error) {
	if op.Quiet {
		return
	}
	if err != nil {
		log.Printf("%s%s",
			utils.DecorateText("\nError rendering the image: "+filepath.Base(fname), utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s %s\n\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}

			if utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				select {
				case <-done:
					return errors.New("directory walk cancelled")
				case pathChan <- path:
				}
			}
			return nil
		})
	}()
	return pathChan, errChan
}
