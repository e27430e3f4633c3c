package site

// pageTemplate is the html/template for the portfolio page. Every section
// carries data-section so the page script can measure it.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Profile.Name}} | {{.Profile.Title}}</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body data-view-path="{{.ViewPath}}">
  <nav class="nav" id="nav">
    <div class="progress" id="progress"></div>
    <a class="brand" href="#hero">{{.Profile.Name}}</a>
    <ul>
      {{- range .Navigation}}
      <li><a href="#{{.ID}}" data-nav="{{.ID}}">{{.Label}}</a></li>
      {{- end}}
    </ul>
  </nav>
  <main>
  {{- range .Sections}}
  {{- if eq . "hero"}}
    <section id="hero" data-section>
      <h1>{{$.Profile.Name}}</h1>
      <p class="pronouns">{{$.Profile.Pronouns}}</p>
      <p class="title">{{$.Profile.Title}}</p>
      <p class="location">{{$.Profile.Location}}</p>
      <p class="links">
        <a href="{{$.Profile.Links.GitHub}}">GitHub</a>
        <a href="{{$.Profile.Links.LinkedIn}}">LinkedIn</a>
      </p>
    </section>
  {{- else if eq . "highlights"}}
    <section id="highlights" data-section>
      <h2>Highlights</h2>
      {{- range $.Highlights}}
      <article class="card"><h3>{{.Title}}</h3><p>{{.Text}}</p></article>
      {{- end}}
    </section>
  {{- else if eq . "projects"}}
    <section id="projects" data-section>
      <h2>Projects</h2>
      <div class="notice" id="projects-notice" hidden>
        <span id="projects-error"></span>
        <button type="button" id="projects-retry">Retry</button>
      </div>
      <div class="loading" id="projects-loading" hidden>Loading projects...</div>
      <div class="projects" id="projects-list">
        {{- range $.Projects}}
        <article class="card project" data-project="{{.Name}}">
          <h3><a href="{{.URL}}">{{.Name}}</a></h3>
          <p>{{.Description}}</p>
          <p class="tags">{{join .Tags " · "}}</p>
          <p class="meta">&#9733; {{.Stars}}{{if not .LastUpdated.IsZero}} · updated {{.LastUpdated.Format "Jan 2, 2006"}}{{end}}</p>
          {{- if .ReadmeHTML}}
          <div class="readme">{{.ReadmeHTML}}</div>
          {{- end}}
        </article>
        {{- end}}
      </div>
    </section>
  {{- else if eq . "skills"}}
    <section id="skills" data-section>
      <h2>Skills</h2>
      {{- range $.Skills}}
      <div class="skill-group"><h3>{{.Name}}</h3><p>{{join .Items ", "}}</p></div>
      {{- end}}
    </section>
  {{- else if eq . "education"}}
    <section id="education" data-section>
      <h2>Education</h2>
      {{- range $.Education}}
      <article class="card">
        <h3>{{.Institution}}</h3>
        <p>{{.Program}} <span class="dates">{{.Dates}}</span></p>
        <ul>{{range .Highlights}}<li>{{.}}</li>{{end}}</ul>
      </article>
      {{- end}}
    </section>
  {{- else if eq . "certifications"}}
    <section id="certifications" data-section>
      <h2>Certifications</h2>
      {{- range $.Certifications}}
      <article class="card"><h3>{{.Name}}</h3><p>{{.Issuer}} · {{.Issued}}</p></article>
      {{- end}}
    </section>
  {{- else if eq . "languages"}}
    <section id="languages" data-section>
      <h2>Languages</h2>
      <p>{{join $.Languages ", "}}</p>
    </section>
  {{- else if eq . "about"}}
    <section id="about" data-section>
      <h2>About</h2>
      <div class="summary">{{$.SummaryHTML}}</div>
    </section>
  {{- else if eq . "contact"}}
    <section id="contact" data-section>
      <h2>Contact</h2>
      <p><a href="mailto:{{$.Profile.Email}}">{{$.Profile.Email}}</a></p>
    </section>
  {{- else}}
    <section id="{{.}}" data-section><h2>{{sectionTitle .}}</h2></section>
  {{- end}}
  {{- end}}
  </main>
  <script src="/static/script.js"></script>
</body>
</html>`

// cssContent is the minimal stylesheet for the page.
const cssContent = `:root { --fg: #1f2937; --muted: #6b7280; --accent: #2563eb; --bg: #ffffff; }
* { box-sizing: border-box; }
body { margin: 0; font-family: system-ui, sans-serif; color: var(--fg); background: var(--bg); }
.nav { position: fixed; top: 0; left: 0; right: 0; height: 64px; display: flex; align-items: center;
  gap: 2rem; padding: 0 2rem; background: rgba(255,255,255,.95); border-bottom: 1px solid #e5e7eb; z-index: 10; }
.nav ul { display: flex; gap: 1rem; list-style: none; margin: 0; padding: 0; }
.nav a { color: var(--muted); text-decoration: none; }
.nav a.active { color: var(--accent); font-weight: 600; }
.progress { position: absolute; left: 0; bottom: 0; height: 2px; width: 0; background: var(--accent); }
main { padding-top: 64px; }
section { padding: 4rem 2rem; max-width: 960px; margin: 0 auto; }
.card { border: 1px solid #e5e7eb; border-radius: 8px; padding: 1rem 1.25rem; margin: 1rem 0; }
.tags, .meta, .dates { color: var(--muted); font-size: .875rem; }
.notice { background: #fef3c7; border-radius: 6px; padding: .75rem 1rem; display: flex; gap: 1rem; align-items: center; }
.readme { font-size: .875rem; color: var(--muted); }
`

// jsContent connects the page to the view channel. It reports section
// geometry and scroll positions and applies the active-section and project
// updates pushed by the server.
const jsContent = `(function() {
  "use strict";

  var viewPath = document.body.getAttribute("data-view-path") || "/ws/view";
  var socket = null;
  var pending = false;

  function measure() {
    var sections = [];
    document.querySelectorAll("[data-section]").forEach(function(el) {
      var rect = el.getBoundingClientRect();
      sections.push({ id: el.id, offsetTop: rect.top + window.scrollY, height: rect.height });
    });
    return sections;
  }

  function viewport() {
    return {
      scrollY: window.scrollY,
      viewportHeight: window.innerHeight,
      documentHeight: document.documentElement.scrollHeight
    };
  }

  function send(msg) {
    if (socket && socket.readyState === WebSocket.OPEN) {
      socket.send(JSON.stringify(msg));
    }
  }

  function sendLayout() {
    var v = viewport();
    send({ type: "layout", sections: measure(), scrollY: v.scrollY,
      viewportHeight: v.viewportHeight, documentHeight: v.documentHeight });
  }

  function onScroll() {
    if (pending) { return; }
    pending = true;
    window.requestAnimationFrame(function() {
      pending = false;
      var v = viewport();
      send({ type: "scroll", scrollY: v.scrollY, viewportHeight: v.viewportHeight,
        documentHeight: v.documentHeight });
    });
  }

  function applyActive(msg) {
    document.querySelectorAll("[data-nav]").forEach(function(a) {
      a.classList.toggle("active", a.getAttribute("data-nav") === msg.active);
    });
    var bar = document.getElementById("progress");
    if (bar) { bar.style.width = (msg.progress * 100).toFixed(2) + "%"; }
  }

  function text(tag, value, cls) {
    var el = document.createElement(tag);
    el.textContent = value;
    if (cls) { el.className = cls; }
    return el;
  }

  function applyProjects(msg) {
    document.getElementById("projects-loading").hidden = !msg.loading;
    var notice = document.getElementById("projects-notice");
    notice.hidden = !msg.error;
    document.getElementById("projects-error").textContent = msg.error || "";
    if (msg.loading || !msg.projects) { return; }

    var list = document.getElementById("projects-list");
    list.innerHTML = "";
    msg.projects.forEach(function(p) {
      var card = document.createElement("article");
      card.className = "card project";
      card.setAttribute("data-project", p.name);
      var h = document.createElement("h3");
      var a = text("a", p.name);
      a.href = p.url;
      h.appendChild(a);
      card.appendChild(h);
      card.appendChild(text("p", p.description || ""));
      card.appendChild(text("p", (p.tags || []).join(" · "), "tags"));
      card.appendChild(text("p", "★ " + p.stars, "meta"));
      list.appendChild(card);
    });
    sendLayout();
  }

  function connect() {
    var proto = window.location.protocol === "https:" ? "wss://" : "ws://";
    socket = new WebSocket(proto + window.location.host + viewPath);
    socket.onopen = sendLayout;
    socket.onmessage = function(ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "active") { applyActive(msg); }
      else if (msg.type === "projects") { applyProjects(msg); }
    };
  }

  document.getElementById("projects-retry").addEventListener("click", function() {
    send({ type: "retry" });
  });
  window.addEventListener("scroll", onScroll, { passive: true });
  window.addEventListener("resize", sendLayout);
  connect();
})();
`
