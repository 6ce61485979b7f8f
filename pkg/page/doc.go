// Package page renders form pages with pongo2 (Django template syntax) and
// restores a previous submission into the rendered markup before it is sent.
//
// Pages that still restore in the browser can embed the same inputs with
// RestoreData, which exposes the snapshot as "json_data" and the registry as
// "form_types". The tojson filter writes them into a script block with <, >
// and & escaped:
//
//	<script>
//	  var json_data = {{ json_data|tojson }};
//	  var form_types = {{ form_types|tojson }};
//	</script>
package page
