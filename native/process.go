package native

import (
	"log"
	"os"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/teamstools/teams-cache-clear/purge"
)

type ProcessLister func() ([]ps.Process, error)
type Killer func(pid int) error
type Launcher func(exePath string) error

// Controller implements purge.ProcessController on top of the OS process
// list. Every step is best-effort: problems are logged and skipped.
type Controller struct {
	Catalog *Catalog

	List   ProcessLister
	Kill   Killer
	Launch Launcher
}

var _ purge.ProcessController = (*Controller)(nil)

func NewController(c *Catalog) *Controller {
	return &Controller{
		Catalog: c,
		List:    ps.Processes,
		Kill:    killPID,
		Launch:  launchDetached,
	}
}

func (pc *Controller) Detect() purge.VariantSet {
	running := purge.NewVariantSet()

	processes, err := pc.List()
	if err != nil {
		log.Printf("While getting process list: %v", err)
		log.Printf("(Note: this just means we'll assume nothing is running)")
		return running
	}

	for _, process := range processes {
		if v, ok := variantForImage(process.Executable()); ok {
			running.Add(v)
		}
	}
	return running
}

func (pc *Controller) Terminate(variants purge.VariantSet) purge.VariantSet {
	killed := purge.NewVariantSet()

	processes, err := pc.List()
	if err != nil {
		log.Printf("While getting process list: %v", err)
		log.Printf("(Note: this just means we won't be able to kill running instances)")
		return killed
	}

	type victim struct {
		pid     int
		variant purge.Variant
	}
	var victims []victim
	for _, process := range processes {
		v, ok := variantForImage(process.Executable())
		if !ok || !variants.Has(v) {
			continue
		}
		log.Printf("Should kill %d (%s)", process.Pid(), imagePath(process.Pid(), process.Executable()))
		victims = append(victims, victim{pid: process.Pid(), variant: v})
	}

	log.Printf("%d processes to kill", len(victims))
	for _, vi := range victims {
		log.Printf("Killing %d...", vi.pid)
		// not waiting for it to exit, and if it won't die, oh well
		if err := pc.Kill(vi.pid); err != nil {
			log.Printf("Could not kill %d: %v", vi.pid, err)
			continue
		}
		killed.Add(vi.variant)
	}
	return killed
}

func (pc *Controller) Relaunch(variants purge.VariantSet) purge.VariantSet {
	launched := purge.NewVariantSet()

	for _, v := range variants.Sorted() {
		exePath := resolveExecutable(pc.Catalog, v)
		if exePath == "" {
			continue
		}

		if _, err := os.Stat(exePath); err != nil {
			log.Printf("Not relaunching %s, (%s) is missing", v, exePath)
			continue
		}

		log.Printf("Relaunching %s from (%s)", v, exePath)
		if err := pc.Launch(exePath); err != nil {
			log.Printf("While relaunching %s: %v", v, err)
			continue
		}
		launched.Add(v)
	}
	return launched
}

func variantForImage(image string) (purge.Variant, bool) {
	for _, v := range purge.AllVariants {
		if strings.EqualFold(image, ImageName(v)) {
			return v, true
		}
	}
	return "", false
}

func killPID(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
