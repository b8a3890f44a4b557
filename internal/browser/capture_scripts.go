package browser

// captureElementJS runs with `this` bound to the target element and returns
// the ElementInfo as a JSON string. Returning a string rather than an object
// keeps the attribute map in document order.
const captureElementJS = `function (withStyles) {
  const el = this;
  const tag = el.tagName.toLowerCase();
  const squash = (s) => (s || '').replace(/\s+/g, ' ').trim();
  const clip = (s, n) => (s.length > n ? s.slice(0, n) + '...' : s);

  const describe = (node) => {
    if (!node || node.nodeType !== 1) return '';
    let d = node.tagName.toLowerCase();
    if (node.id) return d + '#' + node.id;
    const cls = Array.from(node.classList).slice(0, 2);
    if (cls.length) d += '.' + cls.join('.');
    return d;
  };

  const segment = (node) => {
    const t = node.tagName.toLowerCase();
    if (node.id) return t + '#' + CSS.escape(node.id);
    let s = t + Array.from(node.classList).slice(0, 2).map((c) => '.' + CSS.escape(c)).join('');
    const parent = node.parentElement;
    if (parent) {
      const same = Array.from(parent.children).filter((c) => c.tagName === node.tagName);
      if (same.length > 1) s += ':nth-of-type(' + (same.indexOf(node) + 1) + ')';
    }
    return s;
  };

  const selectorPath = () => {
    const parts = [];
    for (let n = el; n && n.nodeType === 1 && parts.length < 4; n = n.parentElement) {
      parts.unshift(segment(n));
      if (n.id) break;
    }
    return parts.join(' > ');
  };

  const fullPath = () => {
    const parts = [];
    for (let n = el; n && n.nodeType === 1; n = n.parentElement) parts.unshift(describe(n));
    return parts.join(' > ');
  };

  const text = squash(el.innerText || el.textContent);
  const humanReadable = () => {
    const name = el.getAttribute('aria-label') || el.getAttribute('title') || el.getAttribute('alt') ||
      el.getAttribute('placeholder') || clip(text, 40);
    return name ? tag + ' "' + name + '"' : describe(el);
  };

  const implicitRoles = {
    a: 'link', button: 'button', nav: 'navigation', main: 'main', header: 'banner', footer: 'contentinfo',
    aside: 'complementary', form: 'form', select: 'combobox', textarea: 'textbox', img: 'img',
    ul: 'list', ol: 'list', li: 'listitem', table: 'table', h1: 'heading', h2: 'heading', h3: 'heading',
    h4: 'heading', h5: 'heading', h6: 'heading', dialog: 'dialog', section: 'region'
  };
  const role = () => {
    const explicit = el.getAttribute('role');
    if (explicit) return explicit;
    if (tag === 'input') {
      const type = (el.getAttribute('type') || 'text').toLowerCase();
      return { checkbox: 'checkbox', radio: 'radio', button: 'button', submit: 'button', range: 'slider' }[type] || 'textbox';
    }
    return implicitRoles[tag] || '';
  };
  const interactive = ['a', 'button', 'input', 'select', 'textarea', 'summary', 'details'].includes(tag) ||
    el.hasAttribute('onclick') || el.isContentEditable ||
    (el.hasAttribute('tabindex') && el.tabIndex >= 0);

  let fixed = false;
  for (let n = el; n && n.nodeType === 1; n = n.parentElement) {
    const p = getComputedStyle(n).position;
    if (p === 'fixed' || p === 'sticky') { fixed = true; break; }
  }

  const attributes = {};
  for (const a of Array.from(el.attributes)) attributes[a.name] = a.value;

  const landmarkSel = 'main,nav,header,footer,aside,form,section,[role=main],[role=navigation],[role=banner],' +
    '[role=contentinfo],[role=complementary],[role=region],[role=form],[role=search]';
  const landmark = el.parentElement ? el.parentElement.closest(landmarkSel) : null;

  const r = el.getBoundingClientRect();
  const info = {
    tagName: tag,
    id: el.id || '',
    classes: Array.from(el.classList),
    humanReadable: humanReadable(),
    selectorPath: selectorPath(),
    fullDomPath: fullPath(),
    rect: { left: r.left, top: r.top, width: r.width, height: r.height, right: r.right, bottom: r.bottom },
    isFixed: fixed,
    attributes: attributes,
    innerText: clip(text, 200),
    accessibility: {
      role: role(),
      isInteractive: interactive,
      ariaLabel: el.getAttribute('aria-label') || '',
      ariaDescribedBy: el.getAttribute('aria-describedby') || '',
      tabIndex: el.hasAttribute('tabindex') ? el.tabIndex : null
    },
    nearbyContext: {
      parent: describe(el.parentElement),
      containingLandmark: describe(landmark),
      previousSibling: describe(el.previousElementSibling),
      nextSibling: describe(el.nextElementSibling)
    }
  };

  if (withStyles) {
    const cs = getComputedStyle(el);
    const props = ['display', 'position', 'width', 'height', 'margin', 'padding', 'color', 'backgroundColor',
      'fontSize', 'fontFamily', 'fontWeight', 'lineHeight', 'textAlign', 'border', 'borderRadius', 'boxShadow',
      'opacity', 'zIndex', 'overflow', 'flexDirection', 'justifyContent', 'alignItems', 'gap'];
    const styles = {};
    for (const p of props) styles[p] = cs[p] || '';
    info.computedStyles = styles;
  }

  return JSON.stringify(info);
}`

// captureSelectionJS returns the current text selection when it lies inside
// the element, otherwise "".
const captureSelectionJS = `function () {
  const sel = window.getSelection();
  if (!sel || sel.rangeCount === 0 || sel.isCollapsed) return '';
  const range = sel.getRangeAt(0);
  return this.contains(range.commonAncestorContainer) ? sel.toString().trim() : '';
}`

// environmentJS samples page-level state for the output header.
const environmentJS = `() => JSON.stringify({
  userAgent: navigator.userAgent,
  viewport: { width: window.innerWidth, height: window.innerHeight },
  devicePixelRatio: window.devicePixelRatio,
  url: location.href,
  scrollPosition: { x: window.scrollX, y: window.scrollY }
})`
