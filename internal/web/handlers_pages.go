package web

import "net/http"

func (s *Server) getLanding(w http.ResponseWriter, r *http.Request) {
	s.render(w, "landing.html", s.pageData(r, nil))
}

func (s *Server) getHowItWorks(w http.ResponseWriter, r *http.Request) {
	s.render(w, "how_it_works.html", s.pageData(r, nil))
}
