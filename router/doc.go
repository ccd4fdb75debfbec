// Package router is a deliberately small HTTP dispatcher for the
// monitoring endpoints: an ordered route table with :name path parameters,
// a configurable base path and a terminal response API. It has no
// dependency on the health logic (or on any web framework); routes are
// matched first-registered-first-wins.
//
//	r := router.New(router.Config{BasePath: "/actuator"})
//	r.Handle(http.MethodGet, "/items/:id", func(res *router.Response, req *router.Request) error {
//	    res.JSON(map[string]string{"id": req.Params["id"]})
//	    return nil
//	})
//
//	srv := router.NewServer(r, logger)
//	port, err := srv.Start(0) // 0 = OS-assigned port
//
// A handler fault (returned error or panic) is caught per request and
// answered with a generic 500 JSON body; unmatched requests and requests
// outside the base path get a structured 404.
package router
