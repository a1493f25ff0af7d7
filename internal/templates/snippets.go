package templates

import (
	"fmt"
	"sort"

	"github.com/scan-io-git/llm-guidance/internal/category"
)

// snippets holds the per-language minimal safe code, keyed by language scope directory name.
// Bodies are the content of the fenced block without the fences.
var snippets = map[string]map[category.Category]string{
	"csharp": {
		category.SQL: `// SECURE - parameterized query
using var cmd = new SqlCommand("SELECT * FROM Users WHERE Id = @id", conn);
cmd.Parameters.Add("@id", SqlDbType.Int).Value = id;`,
		category.XSS: `// SECURE - output encoding
var safe = HtmlEncoder.Default.Encode(value);`,
		category.Cmd: `// SECURE - no shell, argument list
var psi = new ProcessStartInfo(cmd) { UseShellExecute = false };
psi.ArgumentList.Add(arg);
Process.Start(psi);`,
		category.Path: `// SECURE - canonicalize and enforce base path
var full = Path.GetFullPath(Path.Combine(baseDir, name));
if (!full.StartsWith(baseDir, StringComparison.Ordinal)) throw new SecurityException();`,
		category.CSRF: `// SECURE - anti-forgery token
[ValidateAntiForgeryToken]
public IActionResult Post(Model m) { ... }`,
		category.SSRF: `// SECURE - allowlist host and scheme
var uri = new Uri(url);
if (!allowedHosts.Contains(uri.Host)) throw new SecurityException();`,
		category.Secrets: `// SECURE - load secrets from environment/secret store
var apiKey = Environment.GetEnvironmentVariable("API_KEY");`,
		category.Deser: `// SECURE - safe JSON deserialization
var obj = JsonSerializer.Deserialize<MyType>(json);`,
		category.Crypto: `// SECURE - strong password hashing
var hash = BCrypt.Net.BCrypt.HashPassword(password);`,
		category.Auth: `// SECURE - server-side authorization check
if (!User.HasClaim("perm", "resource:read")) return Forbid();`,
		category.Access: `// SECURE - server-side authorization check
if (!User.HasClaim("perm", "resource:read")) return Forbid();`,
	},
	"java": {
		category.SQL: `// SECURE - parameterized query
PreparedStatement ps = conn.prepareStatement("SELECT * FROM users WHERE id = ?");
ps.setInt(1, id);`,
		category.XSS: `// SECURE - output encoding
String safe = Encode.forHtml(value);`,
		category.Cmd: `// SECURE - no shell, explicit args
new ProcessBuilder(cmd, arg).start();`,
		category.Path: `// SECURE - canonicalize and enforce base path
Path full = base.resolve(name).normalize();
if (!full.startsWith(base)) throw new SecurityException();`,
		category.CSRF: `// SECURE - enable CSRF protection
http.csrf();`,
		category.SSRF: `// SECURE - allowlist host and scheme
URI uri = new URI(url);
if (!allowedHosts.contains(uri.getHost())) throw new SecurityException();`,
		category.Secrets: `// SECURE - load secrets from environment/secret store
String apiKey = System.getenv("API_KEY");`,
		category.Deser: `// SECURE - safe JSON deserialization
MyType obj = new ObjectMapper().readValue(json, MyType.class);`,
		category.Crypto: `// SECURE - strong password hashing
String hash = BCrypt.hashpw(password, BCrypt.gensalt());`,
		category.Auth: `// SECURE - server-side authorization check
if (!authz.canRead(user, resource)) throw new ForbiddenException();`,
		category.Access: `// SECURE - server-side authorization check
if (!authz.canRead(user, resource)) throw new ForbiddenException();`,
		category.LDAP: `// SECURE - escape LDAP filter values
String safe = LdapEncoder.filterEncode(value);`,
		category.XXE: `// SECURE - disable DTDs/external entities
factory.setFeature("http://apache.org/xml/features/disallow-doctype-decl", true);`,
	},
	"python": {
		category.SQL: `# SECURE - parameterized query
cursor.execute("SELECT * FROM users WHERE id = %s", (user_id,))`,
		category.XSS: `# SECURE - output encoding
safe = html.escape(value, quote=True)`,
		category.Cmd: `# SECURE - no shell, args list
subprocess.run([cmd, arg], check=True)`,
		category.Path: `# SECURE - canonicalize and enforce base path
full = (base / name).resolve()
if not str(full).startswith(str(base)): raise ValueError()`,
		category.CSRF: `# SECURE - enable CSRF protection
@csrf_protect
def post(request): ...`,
		category.SSRF: `# SECURE - allowlist host and scheme
uri = urlparse(url)
if uri.hostname not in allowed_hosts: raise ValueError()`,
		category.Secrets: `# SECURE - load secrets from environment/secret store
api_key = os.environ["API_KEY"]`,
		category.Deser: `# SECURE - safe JSON deserialization
obj = json.loads(body)`,
		category.Crypto: `# SECURE - strong password hashing
hash = bcrypt.hashpw(password.encode(), bcrypt.gensalt())`,
		category.Auth: `# SECURE - server-side authorization check
if not user.can("read", resource): raise PermissionError()`,
		category.Access: `# SECURE - server-side authorization check
if not user.can("read", resource): raise PermissionError()`,
		category.LDAP: `# SECURE - escape LDAP filter values
safe = escape_filter_chars(value)`,
		category.XXE: `# SECURE - defused XML parsing
root = defusedxml.ElementTree.fromstring(xml)`,
	},
	"javascript": {
		category.SQL: `// SECURE - parameterized query
await db.query('SELECT * FROM users WHERE id = ?', [id]);`,
		category.XSS: `// SECURE - output encoding
el.textContent = value;`,
		category.Cmd: `// SECURE - no shell, args list
spawn(cmd, [arg], { shell: false });`,
		category.Path: `// SECURE - canonicalize and enforce base path
const full = path.resolve(base, name);
if (!full.startsWith(base)) throw new Error('invalid');`,
		category.CSRF: `// SECURE - send CSRF token
fetch(url, { method: 'POST', headers: { 'X-CSRF-Token': token } });`,
		category.SSRF: `// SECURE - allowlist host and scheme
const u = new URL(url);
if (!allowed.has(u.hostname)) throw new Error('invalid');`,
		category.Secrets: `// SECURE - load secrets from environment/secret store
const apiKey = process.env.API_KEY;`,
		category.Deser: `// SECURE - safe JSON parsing
const obj = JSON.parse(body);`,
		category.Crypto: `// SECURE - strong password hashing
const hash = await bcrypt.hash(password, 12);`,
		category.Auth: `// SECURE - server-side authorization check
if (!can(user, 'read', resource)) throw new Error('forbidden');`,
		category.Access: `// SECURE - server-side authorization check
if (!can(user, 'read', resource)) throw new Error('forbidden');`,
		category.LDAP: `// SECURE - escape LDAP filter values
const safe = escapeLDAPFilter(value);`,
		category.XXE: `// SECURE - disable external entities
const parser = new XMLParser({ processEntities: false });`,
		category.Redirect: `// SECURE - allowlist redirect targets
const u = new URL(next, base);
if (u.origin !== base) throw new Error('invalid');`,
	},
	"php": {
		category.SQL: `// SECURE - parameterized query
$stmt = $pdo->prepare('SELECT * FROM users WHERE id = ?');
$stmt->execute([$id]);`,
		category.XSS: `// SECURE - output encoding
$safe = htmlspecialchars($value, ENT_QUOTES, 'UTF-8');`,
		category.Cmd: `// SECURE - no shell, fixed executable and args
$proc = new Symfony\Component\Process\Process([$cmd, $arg]);
$proc->run();`,
		category.Path: `// SECURE - canonicalize and enforce base path
$full = realpath($base . DIRECTORY_SEPARATOR . $name);
if (strpos($full, $base) !== 0) { throw new Exception('invalid'); }`,
		category.CSRF: `// SECURE - verify CSRF token
if (!hash_equals($_SESSION['csrf'], $_POST['csrf'])) { http_response_code(403); }`,
		category.SSRF: `// SECURE - allowlist host and scheme
$u = parse_url($url);
if (!in_array($u['host'], $allowed, true)) { throw new Exception('invalid'); }`,
		category.Secrets: `// SECURE - load secrets from environment/secret store
$apiKey = getenv('API_KEY');`,
		category.Deser: `// SECURE - safe JSON parsing
$obj = json_decode($json, true, 512, JSON_THROW_ON_ERROR);`,
		category.Crypto: `// SECURE - strong password hashing
$hash = password_hash($password, PASSWORD_ARGON2ID);`,
		category.Auth: `// SECURE - server-side authorization check
if (!$user->can('read', $resource)) { http_response_code(403); }`,
		category.Access: `// SECURE - server-side authorization check
if (!$user->can('read', $resource)) { http_response_code(403); }`,
	},
	"ruby": {
		category.SQL: `# SECURE - parameterized query
User.where(id: id)`,
		category.XSS: `# SECURE - output encoding
safe = ERB::Util.html_escape(value)`,
		category.Cmd: `# SECURE - no shell, args list
Open3.capture3(cmd, arg)`,
		category.Path: `# SECURE - canonicalize and enforce base path
full = File.expand_path(name, base)
raise 'invalid' unless full.start_with?(base)`,
		category.CSRF: `# SECURE - enable CSRF protection
protect_from_forgery with: :exception`,
		category.SSRF: `# SECURE - allowlist host and scheme
uri = URI.parse(url)
raise 'invalid' unless allowed.include?(uri.host)`,
		category.Secrets: `# SECURE - load secrets from environment/secret store
api_key = ENV.fetch('API_KEY')`,
		category.Deser: `# SECURE - safe JSON parsing
obj = JSON.parse(body)`,
		category.Crypto: `# SECURE - strong password hashing
hash = BCrypt::Password.create(password)`,
		category.Auth: `# SECURE - server-side authorization check
raise 'forbidden' unless can?(:read, resource)`,
		category.Access: `# SECURE - server-side authorization check
raise 'forbidden' unless can?(:read, resource)`,
		category.XXE: `# SECURE - disable external entities
Nokogiri::XML(xml) { |cfg| cfg.nonet }`,
	},
	"go": {
		category.SQL: `// SECURE - parameterized query
rows, err := db.Query("SELECT * FROM users WHERE id = ?", id)`,
		category.XSS: `// SECURE - output encoding
safe := template.HTMLEscapeString(value)`,
		category.Cmd: `// SECURE - no shell, args list
cmd := exec.Command(command, arg)`,
		category.Path: `// SECURE - canonicalize and enforce base path
full := filepath.Clean(filepath.Join(base, name))
if !strings.HasPrefix(full, base) { return err }`,
		category.CSRF: `// SECURE - enable CSRF protection
handler = csrf.Protect(key)(handler)`,
		category.SSRF: `// SECURE - allowlist host and scheme
u, _ := url.Parse(target)
if !allowed[u.Hostname()] { return err }`,
		category.Secrets: `// SECURE - load secrets from environment/secret store
apiKey := os.Getenv("API_KEY")`,
		category.Deser: `// SECURE - safe JSON parsing
err := json.Unmarshal(body, &obj)`,
		category.Crypto: `// SECURE - strong password hashing
hash, _ := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)`,
		category.Auth: `// SECURE - server-side authorization check
if !can(user, resource) { return err }`,
		category.Access: `// SECURE - server-side authorization check
if !can(user, resource) { return err }`,
	},
	"perl": {
		category.SQL: `# SECURE - parameterized query
my $sth = $dbh->prepare('SELECT * FROM users WHERE id = ?');
$sth->execute($id);`,
		category.XSS: `# SECURE - output encoding
my $safe = encode_entities($value);`,
		category.Secrets: `# SECURE - load secrets from environment/secret store
my $api_key = $ENV{'API_KEY'};`,
		category.Auth: `# SECURE - server-side authorization check
die 'forbidden' unless can($user, $resource);`,
		category.Access: `# SECURE - server-side authorization check
die 'forbidden' unless can($user, $resource);`,
	},
	"c": {
		category.SQL: `// SECURE - parameterized query (SQLite)
sqlite3_prepare_v2(db, "SELECT * FROM users WHERE id = ?", -1, &stmt, 0);
sqlite3_bind_int(stmt, 1, id);`,
		category.Path: `// SECURE - canonicalize and enforce base path
realpath(path, full);
if (strncmp(full, base, strlen(base)) != 0) return ERROR;`,
	},
	"cpp": {
		category.SQL: `// SECURE - parameterized query
auto stmt = conn.prepare("SELECT * FROM users WHERE id = ?");
stmt.bind(1, id);`,
		category.Path: `// SECURE - canonicalize and enforce base path
auto full = fs::weakly_canonical(base / name);
if (full.string().rfind(base.string(), 0) != 0) throw std::runtime_error("invalid");`,
	},
}

// fallbacks is the generic "allowlist untrusted input" snippet per language.
var fallbacks = map[string]string{
	"csharp": `// SECURE - allowlist untrusted data before use
if (!Regex.IsMatch(value, @"^[A-Za-z0-9._-]+$")) throw new ValidationException();`,
	"java": `// SECURE - allowlist untrusted data before use
if (!value.matches("^[A-Za-z0-9._-]+$")) throw new IllegalArgumentException("invalid");`,
	"python": `# SECURE - allowlist untrusted data before use
if not re.fullmatch(r"[A-Za-z0-9._-]+", value):
    raise ValueError("invalid")`,
	"javascript": `// SECURE - allowlist untrusted data before use
if (!/^[A-Za-z0-9._-]+$/.test(value)) throw new Error('invalid');`,
	"php": `// SECURE - allowlist untrusted data before use
if (!preg_match('/^[A-Za-z0-9._-]+$/', $value)) { throw new InvalidArgumentException(); }`,
	"ruby": `# SECURE - allowlist untrusted data before use
raise 'invalid' unless value.match?(/\A[a-zA-Z0-9._-]+\z/)`,
	"go": "// SECURE - allowlist untrusted data before use\n" +
		"if !regexp.MustCompile(`^[A-Za-z0-9._-]+$`).MatchString(value) { return err }",
	"perl": `# SECURE - allowlist untrusted data before use
die "invalid" unless $value =~ /^[A-Za-z0-9._-]+$/;`,
	"c": `// SECURE - allowlist untrusted data before use
for (const char *p = value; *p; ++p) { if (!isalnum((unsigned char)*p)) return ERROR; }`,
	"cpp": `// SECURE - allowlist untrusted data before use
for (char c : value) { if (!std::isalnum((unsigned char)c)) throw std::invalid_argument("invalid"); }`,
}

// Snippet returns the "Minimal Safe Pattern" block for (c, lang). It falls back to the
// language's generic allowlist snippet and reports false when the language has neither.
func Snippet(c category.Category, lang string) (string, bool) {
	if body, ok := snippets[lang][c]; ok {
		return renderSnippet(lang, body), true
	}
	if body, ok := fallbacks[lang]; ok {
		return renderSnippet(lang, body), true
	}
	return "", false
}

// HasSpecificSnippet reports whether lang has a category-specific snippet for c.
func HasSpecificSnippet(c category.Category, lang string) bool {
	_, ok := snippets[lang][c]
	return ok
}

// Languages returns every language scope with registered content, sorted.
func Languages() []string {
	langs := make([]string, 0, len(fallbacks))
	for lang := range fallbacks {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func renderSnippet(lang, body string) string {
	return fmt.Sprintf("### %s\n\n```%s\n%s\n```\n", PatternHeading, lang, body)
}
