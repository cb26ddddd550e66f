package materialize

import (
	"fmt"
	"strconv"
	"strings"
)

// preambleTemplate holds the harness helpers. {{...}} tokens are replaced by
// writePreamble.
const preambleTemplate = `enum crepl_failure {
  {{setup}} = {{setup_status}},
  {{redirect}} = {{redirect_status}},
  {{flush}} = {{flush_status}}
};

struct crepl_redirect {
  const char *name;
  FILE *stream;
  int fd;
  int saved;
  dev_t sink_dev;
  ino_t sink_ino;
};

static int crepl_diag_fd = STDERR_FILENO;

static void crepl_fail(enum crepl_failure kind, const char *op,
                       const struct crepl_redirect *h) {
  int err = errno;
  const char *label = "{{setup_label}}";
  if (kind == {{redirect}})
    label = "{{redirect_label}}";
  else if (kind == {{flush}})
    label = "{{flush_label}}";
  dprintf(crepl_diag_fd, "{{prefix}}%s: %s(%s): %s\n", label, op, h->name,
          strerror(err));
  _exit((int)kind);
}

static void crepl_check(int ok, enum crepl_failure kind, const char *op,
                        const struct crepl_redirect *h) {
  if (!ok)
    crepl_fail(kind, op, h);
}

static void crepl_suppress(struct crepl_redirect *h) {
  struct stat st;
  int sink;
  h->saved = fcntl(h->fd, F_DUPFD_CLOEXEC, 3);
  crepl_check(h->saved != -1, {{redirect}}, "dup", h);
  if (h->fd == STDERR_FILENO)
    crepl_diag_fd = h->saved;
  sink = open({{sink}}, O_WRONLY | O_CLOEXEC);
  crepl_check(sink != -1, {{setup}}, "open", h);
  crepl_check(fstat(sink, &st) != -1, {{setup}}, "fstat", h);
  h->sink_dev = st.st_dev;
  h->sink_ino = st.st_ino;
  crepl_check(dup2(sink, h->fd) != -1, {{redirect}}, "dup2", h);
  crepl_check(close(sink) != -1, {{redirect}}, "close", h);
}

static void crepl_resume(struct crepl_redirect *h) {
  struct stat st;
  crepl_check(fstat(h->fd, &st) != -1, {{redirect}}, "fstat", h);
  if (st.st_dev != h->sink_dev || st.st_ino != h->sink_ino) {
    errno = EBADF;
    crepl_fail({{redirect}}, "verify", h);
  }
  crepl_check(fflush(h->stream) == 0, {{flush}}, "fflush", h);
  crepl_check(dup2(h->saved, h->fd) != -1, {{redirect}}, "dup2", h);
  if (h->fd == STDERR_FILENO)
    crepl_diag_fd = STDERR_FILENO;
  crepl_check(close(h->saved) != -1, {{redirect}}, "close", h);
  h->saved = -1;
}

#if defined(__STDC_VERSION__) && __STDC_VERSION__ >= 201112L
static void crepl_print_bool(_Bool v) { printf("%s{{eol}}", v ? "true" : "false"); }
static void crepl_print_char(char v) {
  if (isprint((unsigned char)v))
    printf("'%c'{{eol}}", v);
  else
    printf("%d{{eol}}", (int)v);
}
static void crepl_print_int(int v) { printf("%d{{eol}}", v); }
static void crepl_print_uint(unsigned int v) { printf("%u{{eol}}", v); }
static void crepl_print_long(long v) { printf("%ld{{eol}}", v); }
static void crepl_print_ulong(unsigned long v) { printf("%lu{{eol}}", v); }
static void crepl_print_llong(long long v) { printf("%lld{{eol}}", v); }
static void crepl_print_ullong(unsigned long long v) { printf("%llu{{eol}}", v); }
static void crepl_print_double(double v) { printf("%g{{eol}}", v); }
static void crepl_print_ldouble(long double v) { printf("%Lg{{eol}}", v); }
static void crepl_print_str(const char *v) {
  if (v == NULL)
    printf("(null){{eol}}");
  else
    printf("\"%s\"{{eol}}", v);
}
static void crepl_print_ptr(const void *v) { printf("%p{{eol}}", v); }
#define crepl_print(x) _Generic((x), \
  _Bool: crepl_print_bool, \
  char: crepl_print_char, \
  signed char: crepl_print_int, \
  unsigned char: crepl_print_uint, \
  short: crepl_print_int, \
  unsigned short: crepl_print_uint, \
  int: crepl_print_int, \
  unsigned int: crepl_print_uint, \
  long: crepl_print_long, \
  unsigned long: crepl_print_ulong, \
  long long: crepl_print_llong, \
  unsigned long long: crepl_print_ullong, \
  float: crepl_print_double, \
  double: crepl_print_double, \
  long double: crepl_print_ldouble, \
  char *: crepl_print_str, \
  const char *: crepl_print_str, \
  default: crepl_print_ptr)(x)
#else
#define crepl_print(x) printf("%lld{{eol}}", (long long)(x))
#endif
`

func writePreamble(b *strings.Builder, opts Options) {
	eol := `\n`
	if opts.NoResultNewline {
		eol = ""
	}
	r := strings.NewReplacer(
		"{{setup}}", SetupFailure.cEnumerator(),
		"{{redirect}}", RedirectFailure.cEnumerator(),
		"{{flush}}", FlushFailure.cEnumerator(),
		"{{setup_status}}", strconv.Itoa(SetupFailure.ExitStatus()),
		"{{redirect_status}}", strconv.Itoa(RedirectFailure.ExitStatus()),
		"{{flush_status}}", strconv.Itoa(FlushFailure.ExitStatus()),
		"{{setup_label}}", SetupFailure.String(),
		"{{redirect_label}}", RedirectFailure.String(),
		"{{flush_label}}", FlushFailure.String(),
		"{{prefix}}", DiagnosticPrefix,
		"{{sink}}", cStringLiteral(opts.DiscardSink),
		"{{eol}}", eol,
	)
	r.WriteString(b, preambleTemplate)
}

// cStringLiteral quotes s as a C string literal. Bytes outside printable
// ASCII are written as three-digit octal escapes so a following character
// can never extend the escape.
func cStringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '?':
			// Breaks trigraph sequences.
			b.WriteString(`\?`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
