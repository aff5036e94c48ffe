package render

import "html/template"

var fragments = template.Must(template.New("fragments").Parse(fragmentTemplates))

const fragmentTemplates = `
{{define "experience"}}<div class="timeline-content">
<div class="timeline-header">
<div>
<h3 class="timeline-title">{{.Title}}</h3>
<p class="timeline-company">{{.Company}}</p>
</div>
<span class="timeline-period">{{.Period}}</span>
</div>
<div class="timeline-description">
<p>{{.Description}}</p>
{{- if .HasResponsibilities}}
<ul>{{range .Responsibilities}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
</div>
</div>{{end}}

{{define "skill"}}<h3><i class="{{.Icon}}"></i> {{.Category}}</h3>
<div class="skill-list">{{range .Skills}}<span class="skill-tag">{{.}}</span>{{end}}</div>{{end}}

{{define "project"}}<div class="project-image">
<i class="{{.IconClass}}"></i>
</div>
<div class="project-content">
<h3 class="project-title">{{.Title}}</h3>
<p class="project-description">{{.Description}}</p>
<div class="project-tech">{{range .Technologies}}<span class="tech-badge">{{.}}</span>{{end}}</div>
<div class="project-links">{{range .Links}}<a href="{{.URL}}" target="_blank" rel="noopener" class="project-link"><i class="{{.Icon}}"></i> {{.Label}}</a>{{end}}</div>
</div>{{end}}

{{define "education"}}<div class="education-header">
<div>
<h3 class="education-degree">{{.Degree}}</h3>
<p class="education-school">{{.School}}</p>
</div>
<span class="education-period">{{.Period}}</span>
</div>
{{- if .Details}}
<p class="timeline-description">{{.Details}}</p>
{{- end}}{{end}}

{{define "certification"}}<strong>{{.Name}}</strong>
{{- if .Issuer}}
<p class="cert-issuer">{{.Issuer}}</p>
{{- end}}{{end}}
`
