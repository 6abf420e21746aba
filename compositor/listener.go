package compositor

import (
	"github.com/patrick9487/Smart-dashboard/internal/poll"
	"github.com/patrick9487/Smart-dashboard/registry"
	"github.com/patrick9487/Smart-dashboard/server"
)

// listener receives surface lifecycle notifications from the server.
type listener struct {
	server.NopListener
	c *Compositor
}

func (lis listener) ClientAdded(client *server.Client) {
	lis.c.logger.Debug("client connected")
}

func (lis listener) ClientRemoved(client *server.Client) {
	lis.c.logger.Debug("client disconnected")
}

func (lis listener) SurfaceCreated(s *server.Surface) {
	c := lis.c
	id := c.reg.Add(s)
	c.surfaces[id] = s
	c.logger.Debug("surface created", "surface", id)
	c.emit(Event{Kind: EventCreated, Surface: id})

	p := poll.Start(
		c.Scheduler(),
		c.config.ContentPoll,
		func() bool { return c.reg.HasContent(id) },
		func() {
			delete(c.polls, id)
			c.markMapped(id)
		},
		func() {
			delete(c.polls, id)
			c.logger.Debug("surface never mapped", "surface", id)
		},
	)
	if !p.Done() {
		c.polls[id] = p
	}
}

func (lis listener) SurfaceCommitted(s *server.Surface) {
	c := lis.c
	id := registry.SurfaceID(s.SurfaceID())
	if p, ok := c.polls[id]; ok {
		p.Check()
	}
	c.emit(Event{Kind: EventCommitted, Surface: id})
}

func (lis listener) SurfaceDestroyed(s *server.Surface) {
	c := lis.c
	id := registry.SurfaceID(s.SurfaceID())
	if p, ok := c.polls[id]; ok {
		p.Cancel()
		delete(c.polls, id)
	}
	delete(c.surfaces, id)
	c.mapped.Remove(id)

	unbound := c.reg.Remove(id)
	c.logger.Debug("surface destroyed", "surface", id, "unbound", unbound)
	for _, pkg := range unbound {
		c.emit(Event{Kind: EventUnbound, Surface: id, Package: pkg})
	}
	c.emit(Event{Kind: EventDestroyed, Surface: id})
}

func (lis listener) ShellCreated(sh server.Shell) {
	c := lis.c
	id := registry.SurfaceID(sh.Surface().SurfaceID())
	c.reg.SetTitle(id, sh.Title())
	sh.OnTitle(func(title string) { c.observeTitle(id, title) })
	if sh.Title() != "" {
		c.observeTitle(id, sh.Title())
	}
}

func (c *Compositor) observeTitle(id registry.SurfaceID, title string) {
	if !c.reg.SetTitle(id, title) {
		return
	}
	c.logger.Debug("title changed", "surface", id, "title", title)

	for _, pkg := range c.matcher.TryMatch(id, title) {
		c.logger.Info("matched surface to package", "surface", id, "package", pkg, "title", title)
		c.emit(Event{Kind: EventMatched, Surface: id, Package: pkg})
	}
}

func (c *Compositor) markMapped(id registry.SurfaceID) {
	if c.mapped.Has(id) {
		return
	}
	c.mapped.Add(id)
	c.emit(Event{Kind: EventMapped, Surface: id})
}
