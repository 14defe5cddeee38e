package web

import (
	"html/template"

	"github.com/terraconstructs/haroldo/pkg/sdk"
)

type templateName string

const (
	loginTmpl  templateName = "login"
	signupTmpl templateName = "signup"
	pageTmpl   templateName = "page"
)

type formData struct {
	Title  string
	Email  string
	Error  string
	Notice string
}

type pageData struct {
	Title  string
	Path   string
	Role   string
	NavBar []sdk.NavItem
	Count  int
	Error  string
}

var templates = template.Must(template.New("layout").Parse(`
{{define "head"}}<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}} · Haroldo</title></head><body>{{end}}
{{define "foot"}}</body></html>{{end}}

{{define "login"}}{{template "head" .}}
<h1>Log in</h1>
{{with .Notice}}<p class="notice">{{.}}</p>{{end}}
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="/login">
  <input name="email" type="email" value="{{.Email}}" placeholder="Email">
  <input name="password" type="password" placeholder="Password">
  <button type="submit">Log in</button>
</form>
<a href="/signup">Create an account</a>
{{template "foot" .}}{{end}}

{{define "signup"}}{{template "head" .}}
<h1>Sign up</h1>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="/signup">
  <input name="email" type="email" value="{{.Email}}" placeholder="Email">
  <input name="password" type="password" placeholder="Password">
  <input name="documentId" placeholder="Document ID">
  <input name="legalName" placeholder="Legal name">
  <select name="clientType">
    <option value="individual">Individual</option>
    <option value="company">Company</option>
  </select>
  <button type="submit">Sign up</button>
</form>
<a href="/login">Back to log in</a>
{{template "foot" .}}{{end}}

{{define "page"}}{{template "head" .}}
<nav>
{{range .NavBar}}  <a href="{{.Path}}" data-icon="{{.Icon}}">{{.Label}}</a>
{{end}}</nav>
<form method="post" action="/logout"><button type="submit">Log out</button></form>
<h1>{{.Title}}</h1>
<p class="role">Signed in as {{.Role}}</p>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
{{if .Count}}<p>{{.Count}} questionnaires</p>{{end}}
{{template "foot" .}}{{end}}
`))
